package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 校验失败按类别区分，客户端的静默刷新逻辑依赖 expired / malformed 的差异
var (
	ErrExpired     = errors.New("token expired")
	ErrMalformed   = errors.New("token malformed")
	ErrNotYetValid = errors.New("token not yet valid")
	ErrInvalid     = errors.New("token invalid")
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
)

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // "user" or "admin"
	Typ  string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Issuer 无状态，只持有启动时装配的密钥与 TTL
type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (j *Issuer) IssueAccess(uid, role string) (string, error) {
	return j.sign(uid, role, typAccess, j.AccessSecret, j.AccessTTL)
}

func (j *Issuer) IssueRefresh(uid string) (string, error) {
	return j.sign(uid, "", typRefresh, j.RefreshSecret, j.RefreshTTL)
}

func (j *Issuer) IssuePair(uid, role string) (TokenPair, error) {
	access, err := j.IssueAccess(uid, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := j.IssueRefresh(uid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *Issuer) VerifyAccess(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, typAccess, j.AccessSecret)
}

func (j *Issuer) VerifyRefresh(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, typRefresh, j.RefreshSecret)
}

func (j *Issuer) sign(uid, role, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		Typ:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *Issuer) parse(tokenStr, wantTyp string, secret []byte) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
	)
	t, err := parser.ParseWithClaims(tokenStr, &claims, func(_ *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrNotYetValid
		default:
			return nil, ErrInvalid
		}
	}
	if !t.Valid || claims.Typ != wantTyp || claims.UID == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}
