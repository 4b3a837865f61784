package mailtmpl

import (
	"html/template"
	"strings"

	"academy-api/internal/domain/mail"
	"academy-api/internal/pkg/errs"
)

// Renderer produces the bilingual (Japanese/English) member mails from
// embedded templates. Rendering happens here so the usecases only deal with
// data, never markup.
type Renderer struct {
	welcome  *template.Template
	notice   *template.Template
	reminder *template.Template
}

func NewRenderer() (*Renderer, error) {
	welcome, err := template.New("welcome").Parse(welcomeHTML)
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse welcome template")
	}
	notice, err := template.New("lesson_notice").Parse(lessonNoticeHTML)
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse lesson notice template")
	}
	reminder, err := template.New("lesson_reminder").Parse(lessonReminderHTML)
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse lesson reminder template")
	}
	return &Renderer{welcome: welcome, notice: notice, reminder: reminder}, nil
}

func (r *Renderer) Welcome(data mail.WelcomeData) (mail.Content, error) {
	html, err := render(r.welcome, data)
	if err != nil {
		return mail.Content{}, err
	}
	return mail.Content{
		Subject: "Success Academy - 登録確認しました",
		HTML:    html,
	}, nil
}

func (r *Renderer) LessonNotice(data mail.LessonNoticeData) (mail.Content, error) {
	html, err := render(r.notice, data)
	if err != nil {
		return mail.Content{}, err
	}
	subject := "Success Academy - レッスン予約確認 - Lesson Confirmation"
	if data.Cancelled {
		subject = "Success Academy - レッスン予約キャンセル確認 - Lesson Cancellation"
	}
	return mail.Content{Subject: subject, HTML: html}, nil
}

func (r *Renderer) LessonReminder(data mail.LessonReminderData) (mail.Content, error) {
	html, err := render(r.reminder, data)
	if err != nil {
		return mail.Content{}, err
	}
	return mail.Content{
		Subject: "Success Academy - レッスン・リマインド",
		HTML:    html,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errs.Wrap(err, "failed to render mail template")
	}
	return sb.String(), nil
}

const welcomeHTML = `<p>{{.LastName}} {{.FirstName}}様<br>
サクセス・アカデミーに会員登録いただきありがとうございます！<br>
フリーレッスン(グループレッスン)の参加手順についてご案内いたします。</p>
<hr>
<h4>(1) 自動決済について</h4>
<p>・登録から14日間は無料体験期間です。<br>
・14日後に入会費の請求とフリーレッスン料の自動決済が開始されます。<br>
・会員登録の際に紹介コードを入力された方は入会費が変更されています。<br>
・キャンセルは体験期間中に会員サイトのプロフィールページでお手続きください。</p>
<h4>(2) クラス参加方法</h4>
<p>・フリーレッスンは学年・年齢を問わず、お子様に合ったクラスに参加できます。<br>
・全クラス5分前までに予約が必要です。会員サイトの「Lesson Calendar」からご予約ください。</p>
<h4>(3) カリキュラムについて</h4>
<p>フリーレッスンは3ヶ月で1クール（1年分の学習内容を3ヶ月で学習）です。</p>
<p>ご不明な点がございましたら、お気軽にお問い合わせください。<br>
よろしくお願いいたします！</p>`

const lessonNoticeHTML = `<div>
{{- if .Cancelled}}
  <p><b>{{.Summary}}</b> の予約をキャンセルしました。</p>
{{- else}}
  <p><b>{{.Summary}}</b> の予約が確認されました。</p>
{{- end}}
</div>
<div>
  <p><b>生徒：</b>{{.StudentName}}</p>
  <p><b>レッスン説明：</b>{{.Description}}</p>
  <h3>開始時間</h3>
  {{- range .Starts}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
  <h3>終了時間</h3>
  {{- range .Ends}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
</div>
<hr/>
<div>
{{- if .Cancelled}}
  <p><b>{{.Summary}}</b> Cancel Confirmation</p>
{{- else}}
  <p><b>{{.Summary}}</b> Signup Confirmation</p>
{{- end}}
</div>
<div>
  <p><b>Student: </b>{{.StudentName}}</p>
  <p><b>Lesson description: </b>{{.Description}}</p>
  <h3>Start time</h3>
  {{- range .Starts}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
  <h3>End time</h3>
  {{- range .Ends}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
</div>`

const lessonReminderHTML = `<div>
  <p><b>{{.Summary}}</b> 予約したレッスンが明日あります。</p>
</div>
<div>
  <p><b>レッスン説明：</b>{{.Description}}</p>
  <h3>開始時間</h3>
  {{- range .Starts}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
  <h3>終了時間</h3>
  {{- range .Ends}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
</div>
<hr/>
<div>
  <p><b>{{.Summary}}</b> You have a lesson tomorrow.</p>
</div>
<div>
  <p><b>Lesson description: </b>{{.Description}}</p>
  <h3>Start time</h3>
  {{- range .Starts}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
  <h3>End time</h3>
  {{- range .Ends}}
  <p><b>{{.Zone}}</b> {{.Display}}</p>
  {{- end}}
</div>`
