package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// maxTokenLen 防止超长输入
const maxTokenLen = 512

const delimiter = "|"

var ErrInvalid = errors.New("invalid cursor")

// Cursor 上一页最后一条的 (created_at, id)，下一页从其之后（不含）继续
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// After 报告 (createdAt, id) 在 (created_at DESC, id DESC) 排序下是否严格排在游标之后
func (c Cursor) After(createdAt time.Time, id string) bool {
	if createdAt.Before(c.CreatedAt) {
		return true
	}
	return createdAt.Equal(c.CreatedAt) && id < c.ID
}

// Codec 将游标编码为带 HMAC-SHA256 签名的不透明 token
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec { return &Codec{secret: []byte(secret)} }

// Encode base64url(created_at|id|signature)
func (c *Codec) Encode(cur Cursor) string {
	payload := cur.CreatedAt.UTC().Format(time.RFC3339Nano) + delimiter + cur.ID
	signed := payload + delimiter + c.sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(signed))
}

// Decode 校验签名并解析；空 token 返回 nil
func (c *Codec) Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	if len(token) > maxTokenLen {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalid
	}

	parts := strings.Split(string(raw), delimiter)
	if len(parts) != 3 || parts[1] == "" {
		return nil, ErrInvalid
	}
	payload := parts[0] + delimiter + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(c.sign(payload))) {
		return nil, ErrInvalid
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, ErrInvalid
	}
	return &Cursor{CreatedAt: ts.UTC(), ID: parts[1]}, nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
