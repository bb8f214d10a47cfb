package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oxygenesis/arsign/internal/domain"
	"github.com/oxygenesis/arsign/internal/service"
)

// maxBody bounds request bodies; sign payloads are base64url so this allows ~12MiB of data.
const maxBody = 16 << 20

var validate = validator.New()

type Wallet struct{ svc *service.SigningService }

func NewWallet(svc *service.SigningService) *Wallet { return &Wallet{svc: svc} }

func (h *Wallet) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Wallets handles /v1/wallets
// - GET -> List
func (h *Wallet) Wallets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	h.List(w, r)
}

// WalletOps handles /v1/wallets/{address} and /v1/wallets/{address}/sign
func (h *Wallet) WalletOps(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/wallets/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(rest, "/sign") && r.Method == http.MethodPost {
		address := strings.TrimSuffix(rest, "/sign")
		if address == "" || strings.Contains(address, "/") {
			http.NotFound(w, r)
			return
		}
		h.Sign(w, r, address)
		return
	}

	// GET /v1/wallets/{address}
	if r.Method == http.MethodGet && !strings.Contains(rest, "/") {
		h.Get(w, r, rest)
		return
	}

	http.NotFound(w, r)
}

func (h *Wallet) Get(w http.ResponseWriter, r *http.Request, address string) {
	wal, err := h.svc.GetWallet(address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, wal)
}

func (h *Wallet) List(w http.ResponseWriter, _ *http.Request) {
	wals, err := h.svc.ListWallets()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, wals)
}

type signRequest struct {
	Data string `json:"data" validate:"required"`
}

type signResponse struct {
	Address   string `json:"address"`
	Owner     string `json:"owner"`
	Signature string `json:"signature"`
	Counter   uint64 `json:"signature_counter"`
}

func (h *Wallet) Sign(w http.ResponseWriter, r *http.Request, address string) {
	var req signRequest
	if !decode(w, r, &req) {
		return
	}
	data, err := domain.DecodeB64(req.Data)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "data must be base64url")
		return
	}

	res, err := h.svc.Sign(address, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrInvalidInput):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			writeErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, signResponse{
		Address:   res.Address,
		Owner:     domain.EncodeB64(res.Owner),
		Signature: domain.EncodeB64(res.Signature),
		Counter:   res.Counter,
	})
}

type verifyRequest struct {
	Owner     string `json:"owner" validate:"required"`
	Data      string `json:"data"`
	Signature string `json:"signature" validate:"required"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Verify handles POST /v1/verify. A signature that does not match is a normal
// answer (200, valid=false); an undecodable owner is the caller's fault (400).
func (h *Wallet) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}
	owner, errO := domain.DecodeB64(req.Owner)
	data, errD := domain.DecodeB64(req.Data)
	sig, errS := domain.DecodeB64(req.Signature)
	if err := errors.Join(errO, errD, errS); err != nil {
		writeErr(w, http.StatusBadRequest, "owner, data and signature must be base64url")
		return
	}

	ok, err := h.svc.Verify(owner, data, sig)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, verifyResponse{Valid: ok})
	case errors.Is(err, domain.ErrVerificationFailed):
		writeJSON(w, http.StatusOK, verifyResponse{Valid: false, Error: err.Error()})
	case errors.Is(err, domain.ErrKeyDecode):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// helpers

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "body too large")
		} else {
			writeErr(w, http.StatusBadRequest, "unreadable body")
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
