package web

// FormField describes one input of a generated form.
type FormField struct {
	Name     string
	Label    string
	Type     string
	Required bool
}

// SignupFields are the inputs of the sign-up form, in display order.
var SignupFields = []FormField{
	{Name: "first_name", Label: "First name", Type: "text"},
	{Name: "last_name", Label: "Last name", Type: "text"},
	{Name: "username", Label: "Username", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email"},
	{Name: "password1", Label: "Password", Type: "password", Required: true},
	{Name: "password2", Label: "Password confirmation", Type: "password", Required: true},
}
