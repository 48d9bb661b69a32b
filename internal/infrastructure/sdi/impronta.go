package sdi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// Fingerprint calcola l'impronta SHA-256 (esadecimale minuscolo) del documento
// XML canonicalizzato. L'impronta è stabile rispetto a indentazione e ordine
// degli attributi: due generazioni dello stesso contenuto producono lo stesso
// hash, utile per audit e deduplica.
func Fingerprint(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("sdi: canonicalizzazione del documento: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
