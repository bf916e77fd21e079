package email

import "fmt"

func verificationBody(fullName, url, author string) string {
	return fmt.Sprintf(`
		<div>
			<h2>Hello, %s!</h2>
			<p>
				Click or tap on the link below in order to verify your new account:<br />
				<a href="%s">%s</a>
			</p>
			<p>
				Thank you for registering for The Daily Markdown! We hope you enjoy the site!
				-%s
			</p>
		</div>
	`, fullName, url, url, author)
}

func resetRequestBody(fullName, code, url, author string) string {
	return fmt.Sprintf(`
		<div>
			<h2>Hello, %s!</h2>
			<p>
				You are receiving this email because a password reset has been requested for your account.<br />
				Enter the following code in order to verify the password reset request:<br /><br />
				<h3>%s</h3>
			</p>
			<p>
				If you need to get back to the authentication page to authenticate later, click this link:<br />
				<a href="%s">%s</a>
			</p>
			<p>
				If you did not request this reset, you may ignore this email.
			</p>
			<p>
				Thank you for using for The Daily Markdown!
				-%s
			</p>
		</div>
	`, fullName, code, url, url, author)
}

func passwordChangedBody(fullName, author string) string {
	return fmt.Sprintf(`
		<div>
			<h2>Hello, %s!</h2>
			<p>
				You are receiving this email because the password on your account has been changed.<br />
				If you were the one who performed this action, then ignore this email.<br />
				If you weren't, then please reply to this email.
			</p>
			<p>
				Thank you for using for The Daily Markdown!
				-%s
			</p>
		</div>
	`, fullName, author)
}
