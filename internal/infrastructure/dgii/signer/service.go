// Servicio de firma digital XMLDSig envolvente para el e-CF DGII.
// Inyecta <Signature> como último hijo del elemento raíz y deriva el código
// de seguridad del SignatureValue.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// DigitalSignatureService implementa la firma XMLDSig e inyecta el nodo en el XML.
type DigitalSignatureService struct{}

// NewDigitalSignatureService crea el servicio.
func NewDigitalSignatureService() *DigitalSignatureService {
	return &DigitalSignatureService{}
}

// Sign implementa pkg/dgii.Signer. Firma el documento completo (enveloped,
// Reference URI="") y devuelve el XML con la firma inyectada más el código
// de seguridad derivado del SignatureValue.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) (*dgii.SignedDocument, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("dgii: XML vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("dgii: el certificado debe incluir llave privada RSA")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("dgii: el certificado no contiene cadena X509")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("dgii: parsear certificado: %w", err)
	}

	// 1) Digest del documento (C14N). Reference URI="" = documento completo.
	canonicalDoc, err := canonicalizeXML(xmlBytes)
	if err != nil {
		canonicalDoc = xmlBytes
	}
	docDigest := sha256.Sum256(canonicalDoc)
	docDigestB64 := base64.StdEncoding.EncodeToString(docDigest[:])

	// 2) SignedInfo (C14N, Reference enveloped, Digest SHA-256)
	signedInfoXML := buildSignedInfo(docDigestB64)
	canonicalSignedInfo, err := canonicalizeXML([]byte(signedInfoXML))
	if err != nil {
		canonicalSignedInfo = []byte(signedInfoXML)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("dgii: firmar SignedInfo: %w", err)
	}
	signatureValueB64 := base64.StdEncoding.EncodeToString(signatureValue)

	// 3) KeyInfo (X509Certificate)
	certB64 := base64.StdEncoding.EncodeToString(x509Cert.Raw)
	signatureXML := buildSignature(signedInfoXML, signatureValueB64, certB64)

	// 4) Inyectar como último hijo del elemento raíz
	signed, err := injectSignature(xmlBytes, signatureXML)
	if err != nil {
		return nil, err
	}

	return &dgii.SignedDocument{
		XML:             signed,
		CodigoSeguridad: CodigoSeguridad(signatureValue),
		FechaFirma:      time.Now(),
	}, nil
}

// CodigoSeguridad deriva el código de seguridad del e-CF: primeros 6
// caracteres del SHA-256 (hex) del SignatureValue.
func CodigoSeguridad(signatureValue []byte) string {
	h := sha256.Sum256(signatureValue)
	return hex.EncodeToString(h[:])[:CodigoSeguridadLen]
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func buildSignedInfo(docDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<SignedInfo xmlns="` + NamespaceDS + `">`)
	sb.WriteString(`<CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<SignatureMethod Algorithm="` + AlgRSASHA256 + `"/>`)
	sb.WriteString(`<Reference URI="">`)
	sb.WriteString(`<Transforms><Transform Algorithm="` + TransformEnveloped + `"/>`)
	sb.WriteString(`<Transform Algorithm="` + AlgC14N + `"/></Transforms>`)
	sb.WriteString(`<DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<DigestValue>` + docDigestB64 + `</DigestValue>`)
	sb.WriteString(`</Reference>`)
	sb.WriteString(`</SignedInfo>`)
	return sb.String()
}

func buildSignature(signedInfoXML, signatureValueB64, certB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<Signature xmlns="` + NamespaceDS + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<SignatureValue>` + signatureValueB64 + `</SignatureValue>`)
	sb.WriteString(`<KeyInfo><X509Data><X509Certificate>` + certB64 + `</X509Certificate></X509Data></KeyInfo>`)
	sb.WriteString(`</Signature>`)
	return sb.String()
}

func injectSignature(xmlBytes []byte, signatureXML string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("dgii: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("dgii: documento sin raíz")
	}
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("dgii: parsear Signature: %w", err)
	}
	if sigRoot := sigDoc.Root(); sigRoot != nil {
		root.AddChild(sigRoot)
	}
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("dgii: serializar XML firmado: %w", err)
	}
	return out.Bytes(), nil
}

var _ dgii.Signer = (*DigitalSignatureService)(nil)
