// internal/pkg/email/templates.go
package email

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}} order {{.OrderNumber}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{if .UserName}}{{.UserName}}{{else}}{{.UserEmail}}{{end}},</p>
        <p>Thanks for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
                <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">${{.Price}}</td>
            </tr>
            {{end}}
            <tr>
                <td style="padding: 8px;"><strong>Total</strong></td>
                <td style="padding: 8px; text-align: right;"><strong>${{.OrderTotal}}</strong></td>
            </tr>
        </table>
        <p>Your games are now in your order history.</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            © {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`

const contactTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>New contact message</h2>
    <p><strong>From:</strong> {{.UserName}} &lt;{{.UserEmail}}&gt;</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`
