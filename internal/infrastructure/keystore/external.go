// Carga de una identidad externa desde .p12 (PKCS#12) o par PEM, para
// despliegues que ya cuentan con un certificado emitido por un proveedor.

package keystore

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pkcs12"

	"github.com/jhoicas/Firmador-api/internal/domain"
)

// LoadExternal carga certificado y llave privada desde un archivo externo y
// los instala como identidad del KeyStore (no se persiste copia en KeysDir).
// Si certPath termina en .p12/.pfx se decodifica como PKCS#12 con el password
// dado; en otro caso se espera un par PEM (certificado y llave separados, o
// combinados si keyPath está vacío).
func (k *KeyStore) LoadExternal(certPath, keyPath, password string) error {
	var tlsCert tls.Certificate
	var err error

	lower := strings.ToLower(certPath)
	if strings.HasSuffix(lower, ".p12") || strings.HasSuffix(lower, ".pfx") {
		tlsCert, err = loadFromP12(certPath, password)
	} else {
		tlsCert, err = loadFromPEM(certPath, keyPath)
	}
	if err != nil {
		return err
	}

	priv, ok := tlsCert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("%w: el certificado externo debe incluir llave privada RSA", domain.ErrStorage)
	}
	leaf := tlsCert.Leaf
	if leaf == nil && len(tlsCert.Certificate) > 0 {
		leaf, err = x509.ParseCertificate(tlsCert.Certificate[0])
		if err != nil {
			return fmt.Errorf("%w: parsear certificado externo: %v", domain.ErrStorage, err)
		}
	}

	k.mu.Lock()
	k.priv = priv
	k.cert = leaf
	k.mu.Unlock()
	return nil
}

// loadFromP12 carga certificado y llave desde un archivo .p12/.pfx.
// El password puede ser vacío si el archivo no está protegido.
func loadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: leer p12: %v", domain.ErrStorage, err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: decodificar p12: %v", domain.ErrStorage, err)
	}
	// pkcs12.Decode devuelve un solo certificado; basta el certificado hoja.
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// loadFromPEM carga certificado y llave desde archivos PEM.
func loadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: cargar PEM: %v", domain.ErrStorage, err)
	}
	return cert, nil
}
