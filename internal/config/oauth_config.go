package config

type OAuthConfig interface {
	GetClientID() string
	GetAuthURL() string
	GetIssuer() string
	GetScopes() []string
}

type OAuth struct {
	ClientID string   `env:"OAUTH_CLIENT_ID"`
	AuthURL  string   `env:"OAUTH_AUTH_URL" envDefault:"https://accounts.google.com/o/oauth2/v2/auth"`
	Issuer   string   `env:"OAUTH_ISSUER" envDefault:"https://accounts.google.com"`
	Scopes   []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/drive.file,https://www.googleapis.com/auth/userinfo.email"`
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetClientID() string {
	return o.ClientID
}

func (o OAuth) GetAuthURL() string {
	return o.AuthURL
}

func (o OAuth) GetIssuer() string {
	return o.Issuer
}

func (o OAuth) GetScopes() []string {
	return o.Scopes
}
