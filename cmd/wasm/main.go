//go:build js && wasm

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"syscall/js"

	"github.com/smallyu/go-ecmodp/internal/config"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
	"github.com/smallyu/go-ecmodp/pkg/session"
)

// Active sessions by handle.
var (
	sessions   = make(map[string]*session.Session)
	nextHandle int
)

func main() {
	c := make(chan struct{})

	fmt.Println("Go ECModP WASM Initialized")

	js.Global().Set("GoECModP", map[string]interface{}{
		"NewSession":     js.FuncOf(NewSession),
		"GenerateParams": js.FuncOf(GenerateParams),
		"GenerateKey":    js.FuncOf(GenerateKey),
		"ImportKey":      js.FuncOf(ImportKey),
		"ExportKey":      js.FuncOf(ExportKey),
		"Encrypt":        js.FuncOf(Encrypt),
		"Decrypt":        js.FuncOf(Decrypt),
		"Sign":           js.FuncOf(Sign),
		"Verify":         js.FuncOf(Verify),
		"Close":          js.FuncOf(Close),
	})

	<-c
}

// NewSession creates a session.
// Arguments:
// 0: optional JSON configuration, same keys as the YAML config file
// Returns:
// session handle (string)
func NewSession(this js.Value, args []js.Value) interface{} {
	cfg := ecc.DefaultConfig()
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
			return fmt.Sprintf("error: invalid config json: %v", err)
		}
		var err error
		if cfg, err = config.Decode(raw); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
	}
	s, err := session.New(cfg, rand.Reader)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	nextHandle++
	handle := fmt.Sprintf("session-%d", nextHandle)
	sessions[handle] = s
	return handle
}

// GenerateParams searches for domain parameters. This blocks the JS thread.
// Arguments:
// 0: session handle
func GenerateParams(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 1)
	if s == nil {
		return errMsg
	}
	if err := s.GenerateParams(context.Background()); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return nil
}

// GenerateKey draws a key pair over the session parameters.
// Arguments:
// 0: session handle
func GenerateKey(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 1)
	if s == nil {
		return errMsg
	}
	if err := s.GenerateKey(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return nil
}

// ImportKey installs parameters and a key.
// Arguments:
// 0: session handle
// 1: JSON key tuple with decimal string fields p, q, gx, gy and d or yx, yy
func ImportKey(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 2)
	if s == nil {
		return errMsg
	}
	var dto keyDTO
	if err := json.Unmarshal([]byte(args[1].String()), &dto); err != nil {
		return fmt.Sprintf("error: invalid key json: %v", err)
	}
	t, err := dto.tuple()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if err := s.ImportKey(t); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return nil
}

// ExportKey returns the session key tuple.
// Arguments:
// 0: session handle
// 1: optional boolean, true to leave out the private scalar
// Returns:
// JSON key tuple with decimal string fields
func ExportKey(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 1)
	if s == nil {
		return errMsg
	}
	t, err := s.ExportKey()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if len(args) > 1 && args[1].Truthy() {
		t = t.Public()
	}
	b, _ := json.Marshal(newKeyDTO(t))
	return string(b)
}

// Encrypt encrypts hex encoded plaintext.
// Arguments:
// 0: session handle
// 1: plaintext (hex)
// Returns:
// base-64 ciphertext
func Encrypt(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 2)
	if s == nil {
		return errMsg
	}
	pt, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex data: %v", err)
	}
	ct, err := s.EncryptToString(pt)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return ct
}

// Decrypt decrypts base-64 ciphertext.
// Arguments:
// 0: session handle
// 1: ciphertext (base-64)
// Returns:
// plaintext (hex)
func Decrypt(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 2)
	if s == nil {
		return errMsg
	}
	pt, err := s.DecryptString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(pt)
}

// Sign signs a hex encoded message.
// Arguments:
// 0: session handle
// 1: message (hex)
// Returns:
// DER signature (hex)
func Sign(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 2)
	if s == nil {
		return errMsg
	}
	msg, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex data: %v", err)
	}
	der, err := s.SignMessage(msg)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(der)
}

// Verify checks a signature.
// Arguments:
// 0: session handle
// 1: message (hex)
// 2: DER signature (hex)
// Returns:
// boolean
func Verify(this js.Value, args []js.Value) interface{} {
	s, errMsg := lookup(args, 3)
	if s == nil {
		return errMsg
	}
	msg, err := hex.DecodeString(args[1].String())
	if err != nil {
		return false
	}
	der, err := hex.DecodeString(args[2].String())
	if err != nil {
		return false
	}
	return s.VerifyMessage(msg, der)
}

// Close forgets a session.
// Arguments:
// 0: session handle
func Close(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (sessionID)"
	}
	delete(sessions, args[0].String())
	return nil
}

// Helpers

func lookup(args []js.Value, want int) (*session.Session, string) {
	if len(args) < want {
		return nil, fmt.Sprintf("error: expected %d arguments", want)
	}
	s, ok := sessions[args[0].String()]
	if !ok {
		return nil, "error: session not found"
	}
	return s, ""
}

// keyDTO carries integers as decimal strings; JS numbers cannot hold them.
type keyDTO struct {
	P  string `json:"p"`
	Q  string `json:"q"`
	Gx string `json:"gx"`
	Gy string `json:"gy"`
	D  string `json:"d,omitempty"`
	Yx string `json:"yx,omitempty"`
	Yy string `json:"yy,omitempty"`

	Proof *proofDTO `json:"proof,omitempty"`
}

type proofDTO struct {
	Rx   string `json:"rx"`
	Ry   string `json:"ry"`
	S    string `json:"s"`
	Hash string `json:"hash,omitempty"`
}

func newKeyDTO(t session.KeyTuple) keyDTO {
	str := func(v *big.Int) string {
		if v == nil {
			return ""
		}
		return v.String()
	}
	d := keyDTO{
		P: str(t.P), Q: str(t.Q), Gx: str(t.Gx), Gy: str(t.Gy),
		D: str(t.D), Yx: str(t.Yx), Yy: str(t.Yy),
	}
	if t.Proof != nil {
		d.Proof = &proofDTO{Rx: str(t.Proof.Rx), Ry: str(t.Proof.Ry), S: str(t.Proof.S), Hash: t.Proof.Hash}
	}
	return d
}

func (d keyDTO) tuple() (session.KeyTuple, error) {
	var t session.KeyTuple
	type field struct {
		in  string
		out **big.Int
	}
	fields := []field{
		{d.P, &t.P}, {d.Q, &t.Q}, {d.Gx, &t.Gx}, {d.Gy, &t.Gy},
		{d.D, &t.D}, {d.Yx, &t.Yx}, {d.Yy, &t.Yy},
	}
	if d.Proof != nil {
		t.Proof = &session.ProofTuple{Hash: d.Proof.Hash}
		fields = append(fields,
			field{d.Proof.Rx, &t.Proof.Rx}, field{d.Proof.Ry, &t.Proof.Ry}, field{d.Proof.S, &t.Proof.S})
	}
	for _, f := range fields {
		if f.in == "" {
			continue
		}
		v, ok := new(big.Int).SetString(f.in, 10)
		if !ok {
			return t, fmt.Errorf("invalid integer %q", f.in)
		}
		*f.out = v
	}
	return t, nil
}
