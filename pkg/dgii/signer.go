package dgii

import (
	"crypto/tls"
	"time"
)

// SignedDocument resultado de firmar un e-CF.
type SignedDocument struct {
	XML             []byte    // documento con <Signature> envolvente inyectada
	CodigoSeguridad string    // primeros 6 caracteres del SHA-256 del SignatureValue
	FechaFirma      time.Time // instante de la firma (zona local del emisor)
}

// Signer define el puerto de firma digital de comprobantes.
// La implementación concreta (XMLDSig envolvente) vive en
// internal/infrastructure/dgii/signer; para tests se puede inyectar un mock.
type Signer interface {
	Sign(xmlBytes []byte, cert tls.Certificate) (*SignedDocument, error)
}
