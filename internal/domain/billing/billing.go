package billing

// Metadata keys set by the member site on charges and subscriptions.
const (
	MetadataPriceID     = "priceId"
	MetadataUserID      = "userId"
	MetadataProfileID   = "profileId"
	MetadataNumPoints   = "numPoints"
	MetadataReferral    = "referral_type"
	MetadataPlanProfile = "profile_id"
)

// PointPlanTag marks a plan's metadata id as a point entitlement plan.
const PointPlanTag = "point"

// Referral discount coupons, keyed by the referral_type subscription metadata
// written at signup.
const (
	CouponAmbassador20  = "ambassador20"
	CouponAmbassador50  = "ambassador50"
	CouponAmbassador100 = "ambassador100"
)

// ReferralCoupon maps a referral type to the signup-fee discount coupon.
// The second return is false when no discount applies.
func ReferralCoupon(referralType string) (string, bool) {
	switch referralType {
	case "twenty":
		return CouponAmbassador20, true
	case "fifty":
		return CouponAmbassador50, true
	case "free":
		return CouponAmbassador100, true
	default:
		return "", false
	}
}

// ItemChange describes one subscription line mutation: either attach a price
// with a quantity, or remove an existing item.
type ItemChange struct {
	ItemID   string
	PriceID  string
	Quantity int64
	Deleted  bool
}
