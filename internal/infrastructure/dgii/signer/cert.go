// Carga de certificado desde .p12 (PKCS#12) o par PEM.

package signer

import (
	"crypto/tls"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx
// (formato en que la DGII entrega los certificados de firma). El password
// puede ser vacío si el archivo no está protegido.
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	// pkcs12.Decode devuelve un solo certificado; para firmar basta la hoja.
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// LoadFromPEM carga certificado y llave desde archivos PEM (por separado o
// combinados en uno). Con certPath vacío retorna cert vacío y err nil
// (modo simulado: no firmar).
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if certPath == "" {
		return tls.Certificate{}, nil
	}
	if keyPath == "" {
		return tls.LoadX509KeyPair(certPath, certPath)
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("cargar PEM: %w", err)
	}
	return cert, nil
}
