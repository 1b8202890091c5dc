package relay

import (
	"fmt"
	"html/template"
	"strings"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 40px; border: 1px solid #eee; border-radius: 30px; text-align: center;">
  <h1 style="color: #000; font-style: italic; font-weight: 900;">VENDIXO</h1>
  <h2 style="color: #7c3aed; margin-top: 20px;">Hi {{.Name}}, Welcome to the Family!</h2>
  <p style="color: #666; font-size: 16px;">We're thrilled to have you here. To celebrate your first step with us, we've got a special gift for you!</p>
  <div style="background: #f8f7ff; padding: 30px; border-radius: 20px; margin: 30px 0; border: 2px dashed #7c3aed;">
    <p style="margin: 0; font-size: 12px; color: #7c3aed; font-weight: bold; text-transform: uppercase;">Your Welcome Coupon</p>
    <h1 style="margin: 10px 0; color: #000; font-size: 40px; letter-spacing: 8px;">{{.CouponCode}}</h1>
    <p style="margin: 0; font-weight: bold; color: #000;">10% OFF ON YOUR FIRST ORDER</p>
  </div>
  <p style="color: #666; font-size: 14px;">Simply enter this code at checkout to claim your discount.</p>
  <p style="margin-top: 40px; font-size: 12px; color: #aaa;">Best Regards,<br><b>Team Vendixo</b></p>
</div>`))

	orderTmpl = template.Must(template.New("order").Parse(`
<div style="font-family: sans-serif; padding: 30px; border: 1px solid #ddd; max-width: 600px; border-radius: 25px;">
  <h2 style="color: #000;">Excellent Choice, {{.Name}}!</h2>
  <p style="color: #555;">Your order has been successfully placed and is being prepared for shipment.</p>
  <div style="background: #f9f9f9; padding: 25px; border-radius: 20px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Order ID:</strong> #{{.OrderID}}</p>
    <p style="margin: 5px 0;"><strong>Total Amount:</strong> ${{.TotalAmount}}</p>
    <p style="margin: 5px 0;"><strong>Items:</strong> {{.ItemsCount}}</p>
  </div>
  <p style="font-size: 14px; color: #888;">We'll send you another update as soon as your package ships!</p>
</div>`))

	deliveredTmpl = template.Must(template.New("delivered").Parse(`
<div style="font-family: sans-serif; padding: 40px; text-align: center; max-width: 600px; margin: auto;">
  <h2 style="color: #10b981; margin-bottom: 10px;">Delivered Successfully!</h2>
  <p style="color: #666;">Hi {{.Name}}, your Vendixo package #{{.OrderID}} has arrived at its destination.</p>
  <p style="color: #666; margin-bottom: 30px;">We hope you're loving your purchase. Would you mind sharing your experience?</p>
</div>`))

	backInStockTmpl = template.Must(template.New("backinstock").Parse(`
<div style="font-family: sans-serif; padding: 30px; border: 2px solid #7c3aed; border-radius: 25px; text-align: center;">
  <h2 style="color: #7c3aed;">It's Back for You!</h2>
  <p>Hi {{.Name}}, the item you've been waiting for is finally available again.</p>
  <h3 style="color: #000; margin: 20px 0;">{{.ProductName}}</h3>
  <p>Stock is limited and moving fast. Don't miss out this time!</p>
  <a href="{{.ProductURL}}" style="background: #7c3aed; color: #fff; padding: 14px 30px; text-decoration: none; border-radius: 12px; font-weight: 900; display: inline-block;">Secure Yours Now</a>
</div>`))

	loginAlertTmpl = template.Must(template.New("loginalert").Parse(`
<div style="font-family: sans-serif; padding: 30px; background: #fffcf0; border: 1px solid #ffeeba; border-radius: 20px;">
  <h3 style="color: #856404;">New Sign-in Detected</h3>
  <p>Hi {{.Name}}, your Vendixo account was just accessed at <b>{{.Time}}</b>.</p>
  <p style="font-size: 13px; color: #666;">If this was you, no action is needed. If you don't recognize this activity, please reset your password immediately to secure your account.</p>
</div>`))
)

func render(tmpl *template.Template, data any) (string, error) {
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}
	return out.String(), nil
}
