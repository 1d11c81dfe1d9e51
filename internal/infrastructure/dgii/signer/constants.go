// Constantes para la firma XMLDSig envolvente que exige la DGII.

package signer

// Namespaces y algoritmos XMLDSig.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2000/09/xmldsig#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// Longitud del código de seguridad del e-CF (primeros caracteres del hash
// del SignatureValue, impresos en la representación y embebidos en el QR).
const CodigoSeguridadLen = 6
