package signature

import "crypto/rsa"

// DocumentReader lee los bytes del documento objetivo.
// La capa de firma no conoce el almacenamiento: solo consume bytes.
type DocumentReader interface {
	// ReadBytes devuelve el contenido o domain.ErrDocumentNotFound.
	ReadBytes(path string) ([]byte, error)
}

// IdentityKeys operaciones que el firmador y el verificador necesitan del
// KeyStore. La llave privada nunca cruza esta frontera: se pide la firma,
// no el material.
type IdentityKeys interface {
	SignDigest(digest []byte) ([]byte, error)
	PublicKey() *rsa.PublicKey
}
