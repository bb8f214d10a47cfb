package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygenesis/arsign/internal/app/http/handler"
	"github.com/oxygenesis/arsign/internal/crypto"
	"github.com/oxygenesis/arsign/internal/domain"
	"github.com/oxygenesis/arsign/internal/service"
	"github.com/oxygenesis/arsign/internal/storage"
)

// fakes
type fakeSigner struct{}

func (fakeSigner) Sign(p []byte) ([]byte, error) { return []byte("sig"), nil }
func (fakeSigner) PubKey() []byte                { return []byte("owner") }
func (fakeSigner) SigLength() int                { return 3 }
func (fakeSigner) PubLength() int                { return 5 }

type fakeFactory struct{}

func (fakeFactory) FromJWK(jose.JSONWebKey) (domain.Signer, error) { return fakeSigner{}, nil }

type fakeVerifier struct{ err error }

func (v fakeVerifier) Verify(_, _, _ []byte) (bool, error) { return v.err == nil, v.err }

type errListRepo struct{ *storage.Memory }

func (*errListRepo) List() ([]*domain.Wallet, error) { return nil, errors.New("boom") }

type errGetRepo struct{ *storage.Memory }

func (*errGetRepo) Get(string) (*domain.Wallet, domain.Signer, error) {
	return nil, nil, errors.New("db oops")
}

type errUpdateRepo struct{ *storage.Memory }

func (*errUpdateRepo) Update(string, func(*domain.Wallet, domain.Signer) error) error {
	return errors.New("update fail")
}

var ownerAddr = domain.Address([]byte("owner"))

func newService(t *testing.T, repo storage.Repository, v domain.Verifier) *service.SigningService {
	t.Helper()
	svc := service.New(repo, fakeFactory{}, v, nil)
	_, err := svc.ImportWallet(jose.JSONWebKey{}, "main")
	require.NoError(t, err)
	return svc
}

func rrDo(h http.HandlerFunc, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func Test_Health_Dispatch(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))

	assert.Equal(t, http.StatusOK, rrDo(hd.Health, http.MethodGet, "/v1/health", nil).Code)
	assert.Equal(t, http.StatusNotFound, rrDo(hd.Health, http.MethodPost, "/v1/health", nil).Code)
}

func Test_Wallets_List_And_Methods(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))

	rr := rrDo(hd.Wallets, http.MethodGet, "/v1/wallets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []domain.Wallet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, ownerAddr, list[0].Address)
	assert.Equal(t, "main", list[0].Label)

	assert.Equal(t, http.StatusNotFound, rrDo(hd.Wallets, http.MethodPost, "/v1/wallets", nil).Code)
}

func Test_List_RepoError_500(t *testing.T) {
	hd := handler.NewWallet(newService(t, &errListRepo{storage.NewMemory()}, fakeVerifier{}))
	assert.Equal(t, http.StatusInternalServerError, rrDo(hd.List, http.MethodGet, "/v1/wallets", nil).Code)
}

func Test_Get_NotFound_Then_OK(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))

	rr := rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Get(w, r, "missing") }, http.MethodGet, "/v1/wallets/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Get(w, r, ownerAddr) }, http.MethodGet, "/v1/wallets/"+ownerAddr, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Wallet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, domain.EncodeB64([]byte("owner")), got.Owner)
}

func Test_Get_InternalError_500(t *testing.T) {
	hd := handler.NewWallet(newService(t, &errGetRepo{storage.NewMemory()}, fakeVerifier{}))
	rr := rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Get(w, r, "any") }, http.MethodGet, "/v1/wallets/any", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func Test_Sign_Flows(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))
	sign := func(address string, body io.Reader) *httptest.ResponseRecorder {
		return rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Sign(w, r, address) }, http.MethodPost, "/v1/wallets/"+address+"/sign", body)
	}

	assert.Equal(t, http.StatusBadRequest, sign(ownerAddr, strings.NewReader("{")).Code, "invalid json")
	assert.Equal(t, http.StatusBadRequest, sign(ownerAddr, jsonBody(t, map[string]any{"data": ""})).Code, "empty data")
	assert.Equal(t, http.StatusBadRequest, sign(ownerAddr, jsonBody(t, map[string]any{"data": "a+b/"})).Code, "std base64")
	assert.Equal(t, http.StatusNotFound, sign("missing", jsonBody(t, map[string]any{"data": "aGk"})).Code)

	rr := sign(ownerAddr, jsonBody(t, map[string]any{"data": domain.EncodeB64([]byte("hello"))}))
	require.Equal(t, http.StatusOK, rr.Code)
	var res struct {
		Address   string `json:"address"`
		Owner     string `json:"owner"`
		Signature string `json:"signature"`
		Counter   uint64 `json:"signature_counter"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, ownerAddr, res.Address)
	assert.Equal(t, domain.EncodeB64([]byte("owner")), res.Owner)
	assert.Equal(t, domain.EncodeB64([]byte("sig")), res.Signature)
	assert.Equal(t, uint64(1), res.Counter)
}

func Test_Sign_BodyTooLarge_413(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))
	body := `{"data":"` + strings.Repeat("A", 17<<20) + `"}`
	rr := rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Sign(w, r, ownerAddr) }, http.MethodPost, "/v1/wallets/"+ownerAddr+"/sign", strings.NewReader(body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func Test_Sign_Default_InternalError_500(t *testing.T) {
	hd := handler.NewWallet(newService(t, &errUpdateRepo{storage.NewMemory()}, fakeVerifier{}))
	rr := rrDo(func(w http.ResponseWriter, r *http.Request) { hd.Sign(w, r, ownerAddr) }, http.MethodPost, "/v1/wallets/"+ownerAddr+"/sign", jsonBody(t, map[string]any{"data": "aGk"}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func Test_WalletOps_Dispatch(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))

	cases := []struct {
		method, path string
		body         io.Reader
		want         int
	}{
		{http.MethodGet, "/v1/wallets/", nil, http.StatusNotFound},
		{http.MethodPost, "/v1/wallets//sign", jsonBody(t, map[string]any{"data": "aGk"}), http.StatusNotFound},
		{http.MethodGet, "/v1/wallets/" + ownerAddr + "/sign", nil, http.StatusNotFound},
		{http.MethodGet, "/v1/wallets/" + ownerAddr + "/extra", nil, http.StatusNotFound},
		{http.MethodPost, "/v1/wallets/a/b/sign", jsonBody(t, map[string]any{"data": "aGk"}), http.StatusNotFound},
		{http.MethodGet, "/v1/wallets/" + ownerAddr, nil, http.StatusOK},
		{http.MethodPost, "/v1/wallets/" + ownerAddr + "/sign", jsonBody(t, map[string]any{"data": "aGk"}), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, rrDo(hd.WalletOps, tc.method, tc.path, tc.body).Code)
		})
	}
}

func Test_Verify_Flows(t *testing.T) {
	owner := domain.EncodeB64(make([]byte, crypto.PubLength))
	sig := domain.EncodeB64(make([]byte, crypto.SigLength))
	data := domain.EncodeB64([]byte("hello"))

	cases := []struct {
		name  string
		err   error
		body  io.Reader
		want  int
		valid bool
	}{
		{"valid", nil, jsonBody(t, map[string]any{"owner": owner, "data": data, "signature": sig}), http.StatusOK, true},
		{"empty data", nil, jsonBody(t, map[string]any{"owner": owner, "signature": sig}), http.StatusOK, true},
		{"mismatch", domain.ErrVerificationFailed, jsonBody(t, map[string]any{"owner": owner, "data": data, "signature": sig}), http.StatusOK, false},
		{"short signature", nil, jsonBody(t, map[string]any{"owner": owner, "data": data, "signature": "AAAA"}), http.StatusOK, false},
		{"bad key", domain.ErrKeyDecode, jsonBody(t, map[string]any{"owner": owner, "data": data, "signature": sig}), http.StatusBadRequest, false},
		{"short owner", nil, jsonBody(t, map[string]any{"owner": "AQAB", "data": data, "signature": sig}), http.StatusBadRequest, false},
		{"primitive", domain.ErrCryptoOperation, jsonBody(t, map[string]any{"owner": owner, "data": data, "signature": sig}), http.StatusInternalServerError, false},
		{"missing owner", nil, jsonBody(t, map[string]any{"data": data, "signature": sig}), http.StatusBadRequest, false},
		{"not base64url", nil, jsonBody(t, map[string]any{"owner": "***", "data": data, "signature": sig}), http.StatusBadRequest, false},
		{"invalid json", nil, strings.NewReader("{"), http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{err: tc.err}))
			rr := rrDo(hd.Verify, http.MethodPost, "/v1/verify", tc.body)
			require.Equal(t, tc.want, rr.Code, rr.Body.String())
			if tc.want == http.StatusOK {
				var res struct {
					Valid bool   `json:"valid"`
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
				assert.Equal(t, tc.valid, res.Valid)
				assert.Equal(t, !tc.valid, res.Error != "")
			}
		})
	}
}

func Test_Verify_WrongMethod_404(t *testing.T) {
	hd := handler.NewWallet(newService(t, storage.NewMemory(), fakeVerifier{}))
	assert.Equal(t, http.StatusNotFound, rrDo(hd.Verify, http.MethodGet, "/v1/verify", nil).Code)
}
