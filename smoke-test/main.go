//go:build smokebin

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/go-jose/go-jose/v4"

	"github.com/oxygenesis/arsign/internal/app/http/handler"
	"github.com/oxygenesis/arsign/internal/app/http/middleware"
	"github.com/oxygenesis/arsign/internal/crypto"
	"github.com/oxygenesis/arsign/internal/domain"
	"github.com/oxygenesis/arsign/internal/service"
	"github.com/oxygenesis/arsign/internal/storage"
	"github.com/oxygenesis/arsign/internal/wallet"
)

const apiPrefix = "/v1"

type factory struct{}

func (factory) FromJWK(jwk jose.JSONWebKey) (domain.Signer, error) { return crypto.NewRSASigner(jwk) }

// must fails the smoke test immediately with a helpful message.
func must(ok bool, msg string, args ...any) {
	if !ok {
		log.Fatalf("SMOKE FAIL: "+msg, args...)
	}
}

func main() {
	keyfile := flag.String("wallet", "internal/crypto/testdata/test_wallet.json", "keyfile to sign with")
	flag.Parse()

	jwk, err := wallet.LoadFromFile(*keyfile)
	must(err == nil, "load wallet: %v", err)

	// Wire the app with an in-process server (no real port binding).
	svc := service.New(storage.NewMemory(), factory{}, crypto.NewRSAVerifier(), nil)
	w, err := svc.ImportWallet(jwk, "smoke")
	must(err == nil, "import wallet: %v", err)

	h := handler.NewWallet(svc)
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"/health", h.Health)
	mux.HandleFunc(apiPrefix+"/wallets", h.Wallets)
	mux.HandleFunc(apiPrefix+"/wallets/", h.WalletOps)
	mux.HandleFunc(apiPrefix+"/verify", h.Verify)

	ts := httptest.NewServer(middleware.Recovery(mux))
	defer ts.Close()

	do := func(method, path string, body any) (int, []byte) {
		var rdr io.Reader
		if body != nil {
			b, _ := json.Marshal(body)
			rdr = bytes.NewReader(b)
		}
		req, _ := http.NewRequest(method, ts.URL+path, rdr)
		req.Header.Set("content-type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		fmt.Printf("%d %s\n\n", resp.StatusCode, string(b))
		return resp.StatusCode, b
	}

	// 1) Health
	code, body := do("GET", apiPrefix+"/health", nil)
	must(code == 200, "health status=%d", code)

	// 2) Wallet is listed under its address
	code, body = do("GET", apiPrefix+"/wallets/"+w.Address, nil)
	must(code == 200, "get status=%d body=%s", code, string(body))

	// 3) Sign and check wire sizes
	msg := domain.EncodeB64([]byte("Hello, Arweave!"))
	code, body = do("POST", apiPrefix+"/wallets/"+w.Address+"/sign", map[string]any{"data": msg})
	must(code == 200, "sign status=%d body=%s", code, string(body))

	var sr struct {
		Owner     string `json:"owner"`
		Signature string `json:"signature"`
	}
	must(json.Unmarshal(body, &sr) == nil, "sign unmarshal")
	owner, _ := domain.DecodeB64(sr.Owner)
	sig, _ := domain.DecodeB64(sr.Signature)
	must(len(owner) == crypto.PubLength, "owner is %d bytes", len(owner))
	must(len(sig) == crypto.SigLength, "signature is %d bytes", len(sig))

	// 4) Verify locally, without the service
	ok, err := crypto.NewRSAVerifier().Verify(owner, []byte("Hello, Arweave!"), sig)
	must(ok && err == nil, "local verify: %v", err)

	// 5) Verify through the API, then with a different message
	type verdict struct {
		Valid bool `json:"valid"`
	}
	var v verdict
	code, body = do("POST", apiPrefix+"/verify", map[string]any{"owner": sr.Owner, "data": msg, "signature": sr.Signature})
	must(code == 200 && json.Unmarshal(body, &v) == nil && v.Valid, "verify body=%s", string(body))

	other := domain.EncodeB64([]byte("Hello, Arweave?"))
	v = verdict{}
	code, body = do("POST", apiPrefix+"/verify", map[string]any{"owner": sr.Owner, "data": other, "signature": sr.Signature})
	must(code == 200 && json.Unmarshal(body, &v) == nil && !v.Valid, "tampered verify body=%s", string(body))
}
