package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Erros específicos
var (
	ErrInvalidSession = errors.New("sessão inválida")
	ErrExpiredSession = errors.New("sessão expirada")
	ErrInvalidClaims  = errors.New("claims inválidas")
)

const (
	// SessionCookieName é o cookie que guarda a sessão assinada
	SessionCookieName = "appSession"

	sessionIssuer = "chat-mobile"
)

// User é o perfil do usuário autenticado, referenciado pelo sub do provedor
type User struct {
	Sub     string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Session representa uma sessão válida
type Session struct {
	User            User
	AuthenticatedAt time.Time
	ExpiresAt       time.Time
}

// SessionClaims representa as claims do token de sessão
type SessionClaims struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Picture  string `json:"picture,omitempty"`
	AuthTime int64  `json:"auth_time"`
	jwt.RegisteredClaims
}

// SessionOptions contém os prazos da sessão
type SessionOptions struct {
	// Absolute é a duração máxima desde o login
	Absolute time.Duration
	// Inactivity é a janela renovada a cada requisição quando Rolling está ativo
	Inactivity time.Duration
	Rolling    bool
	Secure     bool
}

// SessionManager emite e valida sessões em cookies JWT assinados com HS256
type SessionManager struct {
	secretKey []byte
	opts      SessionOptions
	now       func() time.Time
}

// NewSessionManager cria um SessionManager com chave derivada do segredo
func NewSessionManager(secret string, opts SessionOptions) (*SessionManager, error) {
	key, err := deriveKey(secret, sessionKeyInfo)
	if err != nil {
		return nil, err
	}
	if opts.Absolute <= 0 {
		opts.Absolute = 24 * time.Hour
	}
	if opts.Inactivity <= 0 || !opts.Rolling {
		opts.Inactivity = opts.Absolute
	}

	return &SessionManager{
		secretKey: key,
		opts:      opts,
		now:       time.Now,
	}, nil
}

// Issue cria uma sessão nova para o usuário e grava o cookie
func (s *SessionManager) Issue(w http.ResponseWriter, u User) (*Session, error) {
	return s.write(w, u, s.now())
}

// Touch renova a janela de inatividade de uma sessão, respeitando o limite absoluto
func (s *SessionManager) Touch(w http.ResponseWriter, sess *Session) error {
	if !s.opts.Rolling {
		return nil
	}
	renewed, err := s.write(w, sess.User, sess.AuthenticatedAt)
	if err != nil {
		return err
	}
	sess.ExpiresAt = renewed.ExpiresAt
	return nil
}

// Read lê a sessão do cookie da requisição. Sem cookie retorna (nil, nil).
func (s *SessionManager) Read(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := s.validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	return &Session{
		User: User{
			Sub:     claims.Subject,
			Name:    claims.Name,
			Email:   claims.Email,
			Picture: claims.Picture,
		},
		AuthenticatedAt: time.Unix(claims.AuthTime, 0).UTC(),
		ExpiresAt:       claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Clear remove o cookie de sessão
func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(SessionCookieName, "", time.Unix(0, 0), -1))
}

func (s *SessionManager) write(w http.ResponseWriter, u User, authTime time.Time) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.opts.Inactivity)
	if absolute := authTime.Add(s.opts.Absolute); absolute.Before(expiresAt) {
		expiresAt = absolute
	}
	if !expiresAt.After(now) {
		return nil, ErrExpiredSession
	}

	claims := SessionClaims{
		Name:     u.Name,
		Email:    u.Email,
		Picture:  u.Picture,
		AuthTime: authTime.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   u.Sub,
		},
	}

	token, err := s.sign(claims)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, s.cookie(SessionCookieName, token, expiresAt, int(expiresAt.Sub(now).Seconds())))

	return &Session{User: u, AuthenticatedAt: time.Unix(authTime.Unix(), 0).UTC(), ExpiresAt: expiresAt.UTC()}, nil
}

func (s *SessionManager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

func (s *SessionManager) validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

func (s *SessionManager) cookie(name, value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// isSecureBaseURL indica se os cookies devem ser marcados como Secure
func isSecureBaseURL(baseURL string) bool {
	return strings.HasPrefix(strings.ToLower(baseURL), "https://")
}
