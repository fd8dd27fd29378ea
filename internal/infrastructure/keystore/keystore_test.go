package keystore

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Firmador-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests EnsureIdentity — inicialización y recarga
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureIdentity_GeneraLosTresArtefactos(t *testing.T) {
	dir := t.TempDir()
	ks := New(dir)
	require.NoError(t, ks.EnsureIdentity())

	for _, name := range []string{privateKeyFile, publicKeyFile, certificateFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "debe existir el artefacto %s", name)
	}

	require.NotNil(t, ks.PublicKey(), "la llave pública debe quedar en memoria")
	assert.Equal(t, KeySizeBits, ks.PublicKey().N.BitLen(), "el par RSA debe ser de 2048 bits")

	cert := ks.Certificate()
	require.NotNil(t, cert, "el certificado debe quedar en memoria")
	assert.Equal(t, "demo.mipyme.vn", cert.Subject.CommonName)
	assert.Equal(t, []string{"VN"}, cert.Subject.Country)
	assert.True(t, cert.NotAfter.After(cert.NotBefore), "ventana de validez positiva")
	assert.Equal(t, cert.Subject.String(), cert.Issuer.String(), "certificado autofirmado: emisor == sujeto")
}

func TestEnsureIdentity_RecargaSinRegenerar(t *testing.T) {
	dir := t.TempDir()

	primero := New(dir)
	require.NoError(t, primero.EnsureIdentity())
	pubPrimero := primero.PublicKey()

	// Segundo KeyStore sobre la misma carpeta: debe cargar la identidad
	// existente, no generar una nueva.
	segundo := New(dir)
	require.NoError(t, segundo.EnsureIdentity())
	pubSegundo := segundo.PublicKey()

	assert.True(t, pubPrimero.Equal(pubSegundo),
		"la llave pública debe ser la misma entre recargas")
}

func TestEnsureIdentity_ConcurrenteUnaSolaIdentidad(t *testing.T) {
	dir := t.TempDir()
	ks := New(dir)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ks.EnsureIdentity()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "llamada concurrente %d", i)
	}

	// La identidad en memoria debe corresponder exactamente a la persistida.
	recargado := New(dir)
	require.NoError(t, recargado.EnsureIdentity())
	assert.True(t, ks.PublicKey().Equal(recargado.PublicKey()),
		"todas las llamadas concurrentes deben compartir una única identidad")
}

func TestEnsureIdentity_MaterialCorrupto_ErrStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, privateKeyFile), []byte("no es PEM"), 0o600))

	ks := New(dir)
	err := ks.EnsureIdentity()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage),
		"material ilegible debe reportarse como error de almacenamiento, no regenerarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests SignDigest
// ──────────────────────────────────────────────────────────────────────────────

func TestSignDigest_VerificaConLaLlavePublica(t *testing.T) {
	ks := New(t.TempDir())
	require.NoError(t, ks.EnsureIdentity())

	digest := sha256.Sum256([]byte("contenido a firmar"))
	sig, err := ks.SignDigest(digest[:])
	require.NoError(t, err)

	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: crypto.SHA256}
	assert.NoError(t, rsa.VerifyPSS(ks.PublicKey(), crypto.SHA256, digest[:], sig, opts))
}

func TestSignDigest_SaltAleatorio_FirmasDistintas(t *testing.T) {
	ks := New(t.TempDir())
	require.NoError(t, ks.EnsureIdentity())

	digest := sha256.Sum256([]byte("mismo contenido"))
	a, err := ks.SignDigest(digest[:])
	require.NoError(t, err)
	b, err := ks.SignDigest(digest[:])
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "dos firmas PSS del mismo digest no deben ser idénticas byte a byte")
}

func TestSignDigest_SinIdentidad_ErrCrypto(t *testing.T) {
	ks := New(t.TempDir())
	digest := sha256.Sum256([]byte("x"))
	_, err := ks.SignDigest(digest[:])
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCrypto))
}

// El certificado persistido debe poder verificar su propia firma (autofirmado).
func TestCertificado_AutofirmadoVerificable(t *testing.T) {
	ks := New(t.TempDir())
	require.NoError(t, ks.EnsureIdentity())

	cert := ks.Certificate()
	require.NotNil(t, cert)
	assert.Equal(t, x509.SHA256WithRSA, cert.SignatureAlgorithm)
	assert.NoError(t, cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature))
}
