package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"golang.org/x/oauth2"
)

const (
	stateCookieName = "auth_state"
	stateTTL        = 10 * time.Minute
	callbackPath    = "/api/auth/callback"
)

// Erros do fluxo de login
var (
	ErrStateMismatch   = errors.New("state inválido ou ausente")
	ErrMissingCode     = errors.New("código de autorização ausente")
	ErrProviderMissing = errors.New("provedor de identidade não configurado")
)

// CallbackError representa um erro devolvido pelo provedor no callback
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Auth0Config contém as configurações do tenant Auth0
type Auth0Config struct {
	IssuerBaseURL string
	ClientID      string
	ClientSecret  string
	BaseURL       string
	Secret        string
	Scopes        []string
	Session       SessionOptions
}

// Auth0Provider implementa Provider com o fluxo authorization code do Auth0
type Auth0Provider struct {
	issuer     string
	clientID   string
	baseURL    string
	oauth      *oauth2.Config
	sessions   *SessionManager
	stateKey   []byte
	httpClient *http.Client
	logger     logger.Logger
}

// NewAuth0Provider cria o provedor. Sem AUTH0_SECRET as sessões são assinadas
// com um segredo efêmero e não sobrevivem a reinícios.
func NewAuth0Provider(cfg Auth0Config, log logger.Logger) (*Auth0Provider, error) {
	secret := cfg.Secret
	if secret == "" {
		log.Warn("AUTH0_SECRET não configurado, usando segredo efêmero")
		generated, err := randomSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	if cfg.IssuerBaseURL == "" {
		log.Warn("AUTH0_ISSUER_BASE_URL não configurado, login indisponível")
	}

	cfg.Session.Secure = isSecureBaseURL(cfg.BaseURL)
	sessions, err := NewSessionManager(secret, cfg.Session)
	if err != nil {
		return nil, err
	}

	stateKey, err := deriveKey(secret, stateKeyInfo)
	if err != nil {
		return nil, err
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email"}
	}

	return &Auth0Provider{
		issuer:   cfg.IssuerBaseURL,
		clientID: cfg.ClientID,
		baseURL:  cfg.BaseURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.BaseURL + callbackPath,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.IssuerBaseURL + "/authorize",
				TokenURL:  cfg.IssuerBaseURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		sessions:   sessions,
		stateKey:   stateKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
	}, nil
}

// GetSession retorna a sessão do cookie ou nil quando ausente
func (p *Auth0Provider) GetSession(r *http.Request) (*Session, error) {
	return p.sessions.Read(r)
}

// TouchSession renova o cookie de uma sessão deslizante
func (p *Auth0Provider) TouchSession(w http.ResponseWriter, sess *Session) error {
	return p.sessions.Touch(w, sess)
}

// StartLogin grava o state e redireciona para /authorize
func (p *Auth0Provider) StartLogin(w http.ResponseWriter, r *http.Request) error {
	if p.issuer == "" {
		return ErrProviderMissing
	}

	state := uuid.NewString()
	signed, err := p.signState(state)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    signed,
		Path:     callbackPath,
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   p.sessions.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, p.oauth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// HandleCallback valida o state, troca o código por tokens, busca o perfil e grava a sessão.
// Aceita tanto query string (GET) quanto form_post (POST).
func (p *Auth0Provider) HandleCallback(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("erro ao ler parâmetros do callback: %w", err)
	}

	if code := r.Form.Get("error"); code != "" {
		return nil, &CallbackError{Code: code, Description: r.Form.Get("error_description")}
	}

	if err := p.verifyState(r, r.Form.Get("state")); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: callbackPath, MaxAge: -1})

	code := r.Form.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		p.logger.Error("Erro ao trocar código de autorização", "error", err)
		return nil, fmt.Errorf("erro ao trocar código: %w", err)
	}

	user, err := p.fetchUser(ctx, token)
	if err != nil {
		p.logger.Error("Erro ao buscar perfil do usuário", "error", err)
		return nil, err
	}

	sess, err := p.sessions.Issue(w, *user)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Login concluído", "sub", user.Sub)
	return sess, nil
}

// EndSession remove o cookie e retorna a URL de logout do Auth0
func (p *Auth0Provider) EndSession(w http.ResponseWriter, r *http.Request) (string, error) {
	p.sessions.Clear(w)

	if p.issuer == "" {
		return p.baseURL, nil
	}

	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("returnTo", p.baseURL)
	return p.issuer + "/v2/logout?" + q.Encode(), nil
}

func (p *Auth0Provider) fetchUser(ctx context.Context, token *oauth2.Token) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.issuer+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição de perfil: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar perfil: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler perfil: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo retornou %s", resp.Status)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("erro ao decodificar perfil: %w", err)
	}
	if user.Sub == "" {
		return nil, ErrInvalidClaims
	}

	return &user, nil
}

func (p *Auth0Provider) signState(state string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        state,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.stateKey)
}

func (p *Auth0Provider) verifyState(r *http.Request, state string) error {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" {
		return ErrStateMismatch
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrStateMismatch
		}
		return p.stateKey, nil
	})
	if err != nil || claims.ID != state {
		return ErrStateMismatch
	}

	return nil
}
