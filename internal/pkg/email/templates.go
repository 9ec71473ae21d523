package email

// BaseTemplate wraps every email body.
const BaseTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 560px; margin: 0 auto;">
  <h2 style="color: #4a5bd4;">Game Player Nick Finder</h2>
  {{template "body" .}}
  <hr style="border: none; border-top: 1px solid #ddd; margin-top: 24px;">
  <p style="font-size: 12px; color: #888;">
    You received this email because you have an account on Game Player Nick Finder.
  </p>
</body>
</html>`

// PasswordResetTemplate is sent on password reset requests.
const PasswordResetTemplate = `{{define "body"}}
<p>Hi {{.UserName}},</p>
<p>Someone requested a password reset for your account. If this was you,
click the link below. The link expires in one hour.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request a reset, you can safely ignore this email.</p>
{{end}}`

// PokeReceivedTemplate notifies a user that one of their characters got a POKE.
const PokeReceivedTemplate = `{{define "body"}}
<p>Hi {{.UserName}},</p>
<p><strong>{{.SenderNickname}}</strong> sent a POKE to your character
<strong>{{.ReceiverNickname}}</strong>:</p>
<blockquote style="border-left: 3px solid #4a5bd4; padding-left: 12px; color: #555;">{{.Content}}</blockquote>
<p><a href="{{.PokeURL}}">View the POKE</a></p>
{{end}}`

// FriendRequestTemplate notifies a user about a new friend request.
const FriendRequestTemplate = `{{define "body"}}
<p>Hi {{.UserName}},</p>
<p><strong>{{.SenderNickname}}</strong> wants to add your character
<strong>{{.ReceiverNickname}}</strong> as a friend.</p>
<p><a href="{{.RequestsURL}}">View friend requests</a></p>
{{end}}`
