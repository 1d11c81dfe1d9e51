// seed_dgii genera scripts SQL para poblar tablas paramétricas DGII (provincias y municipios)
// a partir del XML oficial de la tabla de municipios.
//
// Uso: go run ./cmd/seed_dgii [ruta/Municipios.xml]
// Por defecto busca Municipios.xml en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/011_seed_municipios.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type parametros struct {
	Tabla struct {
		Valores []valor `xml:"valor"`
	} `xml:"tabla"`
}

type valor struct {
	Cod    string `xml:"cod,attr"`
	Nombre string `xml:"nombre,attr"`
	Otro   struct {
		Codigo string `xml:"codigo,attr"`
		Valor  string `xml:"valor,attr"`
	} `xml:"otro"`
}

func main() {
	xmlPath := "Municipios.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var p parametros
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&p); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	// Provincias únicas: (codigo, nombre)
	provMap := make(map[string]string)
	var municipios []struct{ cod, nombre, provCode string }
	for _, v := range p.Tabla.Valores {
		if v.Cod == "" || v.Nombre == "" || v.Otro.Codigo == "" || v.Otro.Valor == "" {
			continue
		}
		provMap[v.Otro.Codigo] = v.Otro.Valor
		municipios = append(municipios, struct{ cod, nombre, provCode string }{
			cod:      strings.TrimSpace(v.Cod),
			nombre:   strings.TrimSpace(v.Nombre),
			provCode: strings.TrimSpace(v.Otro.Codigo),
		})
	}

	// Ordenar provincias por código para salida estable
	var provCodes []string
	for c := range provMap {
		provCodes = append(provCodes, c)
	}
	sort.Strings(provCodes)

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "011_seed_municipios.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	// Escribir SQL: provincias primero
	out.WriteString("-- Provincias y municipios República Dominicana (código ONE)\n")
	out.WriteString("-- Generado desde Municipios.xml (DGII)\n\n")

	out.WriteString("-- 1. Provincias\n")
	out.WriteString("INSERT INTO locations_provincias (code, name) VALUES\n")
	for i, c := range provCodes {
		name := escapeSQL(provMap[c])
		if i < len(provCodes)-1 {
			fmt.Fprintf(out, "  ('%s', '%s'),\n", c, name)
		} else {
			fmt.Fprintf(out, "  ('%s', '%s')\n", c, name)
		}
	}
	out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n\n")

	// 2. Municipios con subquery a la provincia
	out.WriteString("-- 2. Municipios (código ONE completo)\n")
	for _, m := range municipios {
		name := escapeSQL(m.nombre)
		fmt.Fprintf(out, "INSERT INTO locations_municipios (provincia_id, code, name)\n")
		fmt.Fprintf(out, "SELECT id, '%s', '%s' FROM locations_provincias WHERE code = '%s'\n",
			m.cod, name, m.provCode)
		out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	fmt.Printf("Generado %s: %d provincias, %d municipios\n", outPath, len(provCodes), len(municipios))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
