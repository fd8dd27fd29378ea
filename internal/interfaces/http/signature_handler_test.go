package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Firmador-api/internal/application/auth"
	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/signature"
	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/keystore"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/ledger"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/Firmador-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de documentos (los metadatos reales viven en PostgreSQL)
// ──────────────────────────────────────────────────────────────────────────────

type memDocumentRepo struct {
	docs map[string]*entity.Document
}

func (r *memDocumentRepo) Create(doc *entity.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocumentRepo) GetByID(id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return nil, nil
	}
	return doc, nil
}

func (r *memDocumentRepo) List() ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDocumentRepo) Search(query, category string) ([]*entity.Document, error) {
	return r.List()
}

func (r *memDocumentRepo) SoftDelete(id string) error {
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return domain.ErrNotFound
	}
	doc.IsActive = false
	return nil
}

func (r *memDocumentRepo) Count() (int, error) { return len(r.docs), nil }

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba: router completo con cripto real sobre carpetas temporales
// ──────────────────────────────────────────────────────────────────────────────

const testAdminPassword = "clave-de-prueba"

type apiFixture struct {
	app       *fiber.App
	uploadDir string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	dir := t.TempDir()

	ks := keystore.New(filepath.Join(dir, "digital_keys"))
	require.NoError(t, ks.EnsureIdentity())
	lg, err := ledger.NewFileLedger(filepath.Join(dir, "digital_keys", "signatures.json"))
	require.NoError(t, err)
	uploadStore, err := storage.NewFileStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	signUC := signature.NewSignUseCase(ks, lg, uploadStore)
	verifyUC := signature.NewVerifyUseCase(ks, lg, uploadStore)
	documentUC := documents.NewDocumentUseCase(&memDocumentRepo{docs: map[string]*entity.Document{}}, uploadStore)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(auth.Config{
		AdminEmail:        "admin@mipyme.vn",
		AdminPasswordHash: string(hash),
		Secret:            testJWTSecret,
		Issuer:            testIssuer,
		ExpMinutes:        testExpMin,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SignUC:     signUC,
		VerifyUC:   verifyUC,
		DocumentUC: documentUC,
		AuthUC:     authUC,
		JWTSecret:  testJWTSecret,
	})

	return &apiFixture{app: app, uploadDir: filepath.Join(dir, "uploads")}
}

func (f *apiFixture) writeDoc(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.uploadDir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (f *apiFixture) postJSON(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) login(t *testing.T) string {
	t.Helper()
	resp := f.postJSON(t, "/api/auth/token", "", fiber.Map{
		"email":    "admin@mipyme.vn",
		"password": testAdminPassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "el login de prueba debe funcionar")

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthToken_CredencialesInvalidas(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.postJSON(t, "/api/auth/token", "", fiber.Map{
		"email":    "admin@mipyme.vn",
		"password": "incorrecta",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests firma y verificación vía API
// ──────────────────────────────────────────────────────────────────────────────

func TestSignAPI_FirmaYVerifica(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t)
	path := f.writeDoc(t, "contrato.pdf", []byte("contenido del contrato"))

	resp := f.postJSON(t, "/api/signatures/sign", token, fiber.Map{
		"document_path": path,
		"signer_name":   "Nguyen Van A",
		"signer_email":  "a@mipyme.vn",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	signed := decodeBody(t, resp)
	assert.Equal(t, true, signed["success"])
	assert.True(t, strings.HasPrefix(signed["signature_id"].(string), "SIG-"))
	assert.NotEmpty(t, signed["signature"], "la firma va en base64 en la respuesta")

	// La verificación es pública: sin token.
	resp = f.postJSON(t, "/api/signatures/verify", "", fiber.Map{"document_path": path})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verdict := decodeBody(t, resp)
	assert.Equal(t, true, verdict["valid"])
	assert.Equal(t, signature.IntegrityIntact, verdict["integrity"])
	assert.Equal(t, "Nguyen Van A", verdict["signer"])
	assert.Equal(t, entity.AlgorithmRSAPSSSHA256, verdict["algorithm"])
}

func TestSignAPI_RequiereToken(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.postJSON(t, "/api/signatures/sign", "", fiber.Map{
		"document_path": "x.pdf", "signer_name": "A",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignAPI_DocumentoInexistente_404(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t)
	resp := f.postJSON(t, "/api/signatures/sign", token, fiber.Map{
		"document_path": filepath.Join(f.uploadDir, "no-existe.pdf"),
		"signer_name":   "A",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSignAPI_CamposFaltantes_400(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t)
	resp := f.postJSON(t, "/api/signatures/sign", token, fiber.Map{"signer_name": "A"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyAPI_DocumentoAlterado_Compromised(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t)
	path := f.writeDoc(t, "factura.txt", []byte("total: 100"))

	resp := f.postJSON(t, "/api/signatures/sign", token, fiber.Map{
		"document_path": path, "signer_name": "A",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, os.WriteFile(path, []byte("total: 999"), 0o644))

	resp = f.postJSON(t, "/api/signatures/verify", "", fiber.Map{"document_path": path})
	require.Equal(t, http.StatusOK, resp.StatusCode, "un veredicto negativo no es un error HTTP")
	verdict := decodeBody(t, resp)
	assert.Equal(t, false, verdict["valid"])
	assert.Equal(t, signature.IntegrityCompromised, verdict["integrity"])
	assert.NotEmpty(t, verdict["error"])
}

func TestVerifyAPI_SinFirma_Unknown(t *testing.T) {
	f := newAPIFixture(t)
	path := f.writeDoc(t, "nunca_firmado.txt", []byte("x"))

	resp := f.postJSON(t, "/api/signatures/verify", "", fiber.Map{"document_path": path})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verdict := decodeBody(t, resp)
	assert.Equal(t, false, verdict["valid"])
	assert.Equal(t, signature.IntegrityUnknown, verdict["integrity"])
}

func TestListSignaturesAPI(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t)
	pathA := f.writeDoc(t, "a.txt", []byte("a"))
	pathB := f.writeDoc(t, "b.txt", []byte("b"))

	for _, p := range []string{pathA, pathB} {
		resp := f.postJSON(t, "/api/signatures/sign", token, fiber.Map{
			"document_path": p, "signer_name": "A",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/api/signatures/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	sigs, ok := body["signatures"].([]any)
	require.True(t, ok)
	assert.Len(t, sigs, 2)
}
