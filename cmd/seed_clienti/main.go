// seed_clienti genera uno script SQL per popolare l'anagrafica clienti a
// partire dall'export CSV del gestionale precedente (separatore ';',
// codifica Windows-1252).
//
// Colonne attese: denominazione;tipo;partita_iva;codice_fiscale;citta;cap;provincia;pec
//
// Uso: go run ./cmd/seed_clienti [percorso/clienti.csv]
// Di default cerca clienti.csv nella directory corrente.
// Scrive: internal/infrastructure/postgres/migrations/002_seed_clienti.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type cliente struct {
	denominazione string
	tipo          string
	partitaIVA    string
	codiceFiscale string
	citta         string
	cap           string
	provincia     string
	pec           string
}

func main() {
	csvPath := "clienti.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Apertura CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// I gestionali Windows esportano in Windows-1252: senza transcodifica le
	// denominazioni con accentate arrivano corrotte.
	reader := csv.NewReader(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = 8

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lettura CSV: %v\n", err)
		os.Exit(1)
	}

	var clienti []cliente
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "denominazione") {
			continue // riga di intestazione
		}
		c := cliente{
			denominazione: strings.TrimSpace(rec[0]),
			tipo:          normalizzaTipo(rec[1]),
			partitaIVA:    strings.TrimSpace(rec[2]),
			codiceFiscale: strings.TrimSpace(rec[3]),
			citta:         strings.TrimSpace(rec[4]),
			cap:           strings.TrimSpace(rec[5]),
			provincia:     strings.ToUpper(strings.TrimSpace(rec[6])),
			pec:           strings.TrimSpace(rec[7]),
		}
		if c.denominazione == "" || (c.partitaIVA == "" && c.codiceFiscale == "") {
			continue
		}
		clienti = append(clienti, c)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_clienti.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Creazione file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Anagrafica clienti importata dal gestionale precedente\n")
	out.WriteString("-- Generato da cmd/seed_clienti\n\n")
	for _, c := range clienti {
		fmt.Fprintf(out,
			"INSERT INTO clients (id, name, type, partita_iva, codice_fiscale, city, postal_code, province, pec, created_at, updated_at)\n"+
				"VALUES (gen_random_uuid(), '%s', '%s', %s, %s, %s, %s, %s, %s, now(), now())\n"+
				"ON CONFLICT (partita_iva) DO UPDATE SET name = EXCLUDED.name;\n",
			escapeSQL(c.denominazione), c.tipo,
			sqlString(c.partitaIVA), sqlString(c.codiceFiscale),
			sqlString(c.citta), sqlString(c.cap),
			sqlString(c.provincia), sqlString(c.pec),
		)
	}

	fmt.Printf("Generato %s: %d clienti\n", outPath, len(clienti))
}

// normalizzaTipo traduce le sigle del gestionale nei tipi dell'anagrafica.
func normalizzaTipo(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PA", "PUBBLICA_AMMINISTRAZIONE":
		return "PUBBLICA_AMMINISTRAZIONE"
	case "PROF", "PROFESSIONISTA":
		return "PROFESSIONISTA"
	default:
		return "AZIENDA"
	}
}

func sqlString(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
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
