package storage

import (
	"fmt"
	"strings"
)

// Key layout inside the bucket:
//
//	<clientId>/<caseId>/documents/v<N>/<filename>
//	<clientId>/<caseId>/extractions/<documentId>/v<N>.json

// DocumentKey builds the blob key for one stored document version.
func DocumentKey(clientID, caseID string, version int, fileName string) string {
	return fmt.Sprintf("%s/%s/documents/v%d/%s", clientID, caseID, version, sanitizeFileName(fileName))
}

// ExtractionKey builds the blob key for one extraction artifact.
func ExtractionKey(clientID, caseID, documentID string, version int) string {
	return fmt.Sprintf("%s/%s/extractions/%s/v%d.json", clientID, caseID, documentID, version)
}

// CasePrefix is the prefix covering everything stored for a case.
func CasePrefix(clientID, caseID string) string {
	return fmt.Sprintf("%s/%s/", clientID, caseID)
}

// DocumentVersionsPrefix covers every stored version of a case's documents.
func DocumentVersionsPrefix(clientID, caseID string) string {
	return fmt.Sprintf("%s/%s/documents/", clientID, caseID)
}

// ExtractionPrefix covers every extraction artifact of one document.
func ExtractionPrefix(clientID, caseID, documentID string) string {
	return fmt.Sprintf("%s/%s/extractions/%s/", clientID, caseID, documentID)
}

// sanitizeFileName strips path separators so a client-supplied file name
// cannot escape its key prefix.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		name = "document"
	}
	return name
}
