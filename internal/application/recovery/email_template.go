package recovery

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type resetEmailData struct {
	AppName  string
	Name     string
	ResetURL string
	Minutes  int
}

var resetEmailTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="padding: 20px; background-color: #f9f9f9;">
    <div style="background: #4f46e5; color: white; padding: 30px 20px; text-align: center; border-radius: 8px 8px 0 0;">
      <h1 style="margin: 0;">Restablecer contraseña</h1>
    </div>
    <div style="background: white; padding: 30px; border-radius: 0 0 8px 8px;">
      <p>Hola <strong>{{.Name}}</strong>,</p>
      <p>Recibimos una solicitud para restablecer la contraseña de tu cuenta.</p>
      <p style="text-align: center;">
        <a href="{{.ResetURL}}" style="display: inline-block; padding: 14px 30px; background: #4f46e5; color: white; text-decoration: none; border-radius: 6px; font-weight: bold;">Restablecer contraseña</a>
      </p>
      <p style="color: #666; font-size: 14px;">O copia este enlace en tu navegador:</p>
      <p style="background: #f5f5f5; padding: 12px; border-radius: 4px; word-break: break-all; font-size: 13px;">{{.ResetURL}}</p>
      <ul>
        <li>El enlace vence en <strong>{{.Minutes}} minutos</strong>.</li>
        <li>Solo se puede usar <strong>una vez</strong>.</li>
        <li>No lo compartas con nadie.</li>
      </ul>
      <p style="color: #666;">Si no pediste el cambio, ignora este mensaje.</p>
    </div>
    <div style="text-align: center; padding: 20px; color: #777; font-size: 12px;">
      <p>{{.AppName}}. Este email se envió automáticamente, no respondas.</p>
    </div>
  </div>
</body>
</html>`))

func renderResetEmail(d resetEmailData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := resetEmailTmpl.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("renderizar email: %w", err)
	}
	return "Restablecer contraseña - " + d.AppName, buf.String(), nil
}

// displayName capitaliza el nombre para el saludo; sin nombre usa la parte local del email.
func displayName(fullName, email string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return cases.Title(language.Und).String(strings.ToLower(name))
}
