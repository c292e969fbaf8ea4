package config

// GuardConfig holds the redirect targets consumed by the guard layer.
// Login and Unauthorized are distinct surfaces on purpose: the latter tells
// an authenticated user they lack permission, the former that they are not
// signed in.
type GuardConfig struct {
	Login             string `env:"LOGIN_TARGET"              envDefault:"/login"`
	Unauthorized      string `env:"UNAUTHORIZED_TARGET"       envDefault:"/unauthorized"`
	ProfileCompletion string `env:"PROFILE_COMPLETION_TARGET" envDefault:"/complete-profile"`
	DefaultLanding    string `env:"DEFAULT_LANDING_TARGET"    envDefault:"/"`
	AdminLanding      string `env:"ADMIN_LANDING_TARGET"      envDefault:"/admin"`
}

// Sanitize applies guardrails to guard target values.
func (g *GuardConfig) Sanitize() {
	if g.Login == "" {
		g.Login = "/login"
	}
	if g.Unauthorized == "" {
		g.Unauthorized = "/unauthorized"
	}
	if g.ProfileCompletion == "" {
		g.ProfileCompletion = "/complete-profile"
	}
	if g.DefaultLanding == "" {
		g.DefaultLanding = "/"
	}
	if g.AdminLanding == "" {
		g.AdminLanding = "/admin"
	}
}
