// Package keystore es el dueño de la identidad de firma del sistema:
// llave privada RSA, llave pública y certificado autofirmado.
//
// La llave privada nunca sale del paquete: el firmador pide la operación
// (SignDigest) en lugar del material. Simulación de firma digital tipo 2
// según la Ley de Transacciones Electrónicas No.20/2023/QH15 y el
// Decreto No.130/2018/ND-CP de Vietnam.
package keystore

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Firmador-api/internal/domain"
)

// Artefactos persistidos en la carpeta de llaves.
const (
	privateKeyFile  = "private_key.pem" // PKCS#8 sin cifrar
	publicKeyFile   = "public_key.pem"  // SubjectPublicKeyInfo
	certificateFile = "certificate.pem" // X.509 autofirmado
)

// KeySizeBits tamaño del par RSA generado.
const KeySizeBits = 2048

// certValidityDays ventana de validez del certificado autofirmado.
const certValidityDays = 365

// Atributos fijos del sujeto del certificado demo.
var demoSubject = pkix.Name{
	Country:      []string{"VN"},
	Province:     []string{"Hanoi"},
	Locality:     []string{"Hanoi"},
	Organization: []string{"MiPyME Demo"},
	CommonName:   "demo.mipyme.vn",
}

// KeyStore identidad de firma única del despliegue.
// La inicialización ocurre a lo sumo una vez: dos llamadas concurrentes a
// EnsureIdentity jamás deben generar dos identidades distintas (la segunda
// escritura invalidaría en silencio las firmas ya emitidas contra la primera).
type KeyStore struct {
	dir string

	mu   sync.RWMutex
	sf   singleflight.Group
	priv *rsa.PrivateKey
	cert *x509.Certificate
}

// New crea el KeyStore sobre la carpeta indicada. No toca disco todavía.
func New(dir string) *KeyStore {
	return &KeyStore{dir: dir}
}

// EnsureIdentity garantiza que existe una identidad cargada en memoria:
// si hay material persistido lo carga sin modificarlo; si no, genera el par
// RSA y el certificado autofirmado y los persiste (inicialización única e
// irreversible). Idempotente: un segundo llamador que llegue después de la
// inicialización simplemente carga la identidad existente.
func (k *KeyStore) EnsureIdentity() error {
	// singleflight colapsa llamadas concurrentes de primer uso en una sola
	// generación; las demás esperan y comparten el resultado.
	_, err, _ := k.sf.Do("identity", func() (interface{}, error) {
		k.mu.RLock()
		loaded := k.priv != nil
		k.mu.RUnlock()
		if loaded {
			return nil, nil
		}
		if _, statErr := os.Stat(filepath.Join(k.dir, privateKeyFile)); statErr == nil {
			return nil, k.load()
		}
		return nil, k.generate()
	})
	return err
}

// SignDigest firma un digest SHA-256 con RSA-PSS (MGF1/SHA-256, salt máximo).
// El salt se genera aleatoriamente en cada llamada: dos firmas sobre el mismo
// contenido no son idénticas byte a byte aunque ambas verifiquen.
func (k *KeyStore) SignDigest(digest []byte) ([]byte, error) {
	k.mu.RLock()
	priv := k.priv
	k.mu.RUnlock()
	if priv == nil {
		return nil, fmt.Errorf("%w: identidad de firma no inicializada", domain.ErrCrypto)
	}
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA256, digest, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: firmar digest: %v", domain.ErrCrypto, err)
	}
	return sig, nil
}

// PublicKey devuelve la llave pública cargada (solo lectura).
func (k *KeyStore) PublicKey() *rsa.PublicKey {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.priv == nil {
		return nil
	}
	return &k.priv.PublicKey
}

// Certificate devuelve el certificado de la identidad (puede ser nil si la
// identidad se cargó desde un par PEM sin certificado).
func (k *KeyStore) Certificate() *x509.Certificate {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cert
}

// load lee el material persistido. Archivos presentes pero ilegibles o
// malformados se reportan como ErrStorage.
func (k *KeyStore) load() error {
	privPEM, err := os.ReadFile(filepath.Join(k.dir, privateKeyFile))
	if err != nil {
		return fmt.Errorf("%w: leer llave privada: %v", domain.ErrStorage, err)
	}
	block, _ := pem.Decode(privPEM)
	if block == nil {
		return fmt.Errorf("%w: llave privada sin bloque PEM", domain.ErrStorage)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("%w: parsear llave privada PKCS#8: %v", domain.ErrStorage, err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("%w: la llave privada no es RSA", domain.ErrStorage)
	}

	certPEM, err := os.ReadFile(filepath.Join(k.dir, certificateFile))
	if err != nil {
		return fmt.Errorf("%w: leer certificado: %v", domain.ErrStorage, err)
	}
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return fmt.Errorf("%w: certificado sin bloque PEM", domain.ErrStorage)
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return fmt.Errorf("%w: parsear certificado: %v", domain.ErrStorage, err)
	}

	k.mu.Lock()
	k.priv = priv
	k.cert = cert
	k.mu.Unlock()
	return nil
}

// generate crea el par RSA 2048 y el certificado autofirmado, y persiste los
// tres artefactos con escritura atómica (temporal + rename).
func (k *KeyStore) generate() error {
	if err := os.MkdirAll(k.dir, 0o755); err != nil {
		return fmt.Errorf("%w: crear carpeta de llaves: %v", domain.ErrStorage, err)
	}

	priv, err := rsa.GenerateKey(rand.Reader, KeySizeBits)
	if err != nil {
		return fmt.Errorf("%w: generar par RSA: %v", domain.ErrCrypto, err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return fmt.Errorf("%w: serializar llave privada: %v", domain.ErrCrypto, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: serializar llave pública: %v", domain.ErrCrypto, err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return fmt.Errorf("%w: serial del certificado: %v", domain.ErrCrypto, err)
	}
	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               demoSubject,
		NotBefore:             now,
		NotAfter:              now.AddDate(0, 0, certValidityDays),
		SignatureAlgorithm:    x509.SHA256WithRSA,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return fmt.Errorf("%w: emitir certificado autofirmado: %v", domain.ErrCrypto, err)
	}

	if err := k.writePEM(publicKeyFile, "PUBLIC KEY", pubDER, 0o644); err != nil {
		return err
	}
	if err := k.writePEM(certificateFile, "CERTIFICATE", certDER, 0o644); err != nil {
		return err
	}
	// La llave privada se escribe de última: su presencia es la marca de
	// inicialización completa que consulta EnsureIdentity.
	if err := k.writePEM(privateKeyFile, "PRIVATE KEY", privDER, 0o600); err != nil {
		return err
	}

	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return fmt.Errorf("%w: releer certificado emitido: %v", domain.ErrCrypto, err)
	}

	k.mu.Lock()
	k.priv = priv
	k.cert = cert
	k.mu.Unlock()
	return nil
}

func (k *KeyStore) writePEM(name, blockType string, der []byte, perm os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := writeFileAtomic(filepath.Join(k.dir, name), data, perm); err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrStorage, name, err)
	}
	return nil
}

// writeFileAtomic escribe en un temporal del mismo directorio y hace rename,
// para que nunca quede un artefacto a medio escribir visible en la ruta final.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
