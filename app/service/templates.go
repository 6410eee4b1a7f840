package service

import "html/template"

const defaultLanguage = "en"

type localizedTemplate struct {
	Subject string
	Body    *template.Template
}

var emailTemplates = map[string]map[string]localizedTemplate{
	EmailSubjectConfirmEmail: {
		"en": {
			Subject: "Please confirm your email",
			Body: template.Must(template.New("confirm-en").Parse(
				`<p>Hi {{.firstName}},</p>` +
					`<p>Welcome to Space2Study! Please confirm your email address by following the link below.</p>` +
					`<p><a href="{{.link}}">Confirm email</a></p>`)),
		},
		"uk": {
			Subject: "Будь ласка, підтвердьте свою електронну пошту",
			Body: template.Must(template.New("confirm-uk").Parse(
				`<p>Вітаємо, {{.firstName}}!</p>` +
					`<p>Ласкаво просимо до Space2Study! Підтвердьте свою електронну адресу за посиланням нижче.</p>` +
					`<p><a href="{{.link}}">Підтвердити пошту</a></p>`)),
		},
	},
	EmailSubjectResetPassword: {
		"en": {
			Subject: "Reset your password",
			Body: template.Must(template.New("reset-en").Parse(
				`<p>Hi {{.firstName}},</p>` +
					`<p>We received a request to reset the password for {{.email}}. Follow the link below to choose a new one.</p>` +
					`<p><a href="{{.link}}">Reset password</a></p>` +
					`<p>If you did not request this, you can safely ignore this email.</p>`)),
		},
		"uk": {
			Subject: "Скидання пароля",
			Body: template.Must(template.New("reset-uk").Parse(
				`<p>Вітаємо, {{.firstName}}!</p>` +
					`<p>Ми отримали запит на скидання пароля для {{.email}}. Перейдіть за посиланням нижче, щоб обрати новий.</p>` +
					`<p><a href="{{.link}}">Скинути пароль</a></p>` +
					`<p>Якщо ви не надсилали цей запит, просто проігноруйте цей лист.</p>`)),
		},
	},
	EmailSubjectPasswordChanged: {
		"en": {
			Subject: "Your password was changed",
			Body: template.Must(template.New("changed-en").Parse(
				`<p>Hi {{.firstName}},</p>` +
					`<p>Your password was changed successfully. If this wasn't you, please reset your password immediately.</p>`)),
		},
		"uk": {
			Subject: "Ваш пароль було змінено",
			Body: template.Must(template.New("changed-uk").Parse(
				`<p>Вітаємо, {{.firstName}}!</p>` +
					`<p>Ваш пароль успішно змінено. Якщо це були не ви, негайно скиньте пароль.</p>`)),
		},
	},
}
