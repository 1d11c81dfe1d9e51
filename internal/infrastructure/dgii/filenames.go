package dgii

import (
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// ECFFilename genera el nombre de archivo que exige la DGII para el XML:
//
//	{RNC}{eNCF}.xml  (RNC solo dígitos, sin guiones)
//
// Ejemplo: 130000001E310000000001.xml
func ECFFilename(rnc, encf string) string {
	return pkgdgii.OnlyDigits(rnc) + encf + ".xml"
}
