package store

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeDSN converte URLs "mariadb://" ou "mysql://" para o formato nativo
// do driver MySQL. DSNs já nativos passam inalterados.
func NormalizeDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	user := ""
	pass := ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	host := u.Host
	dbName := strings.TrimPrefix(u.Path, "/")
	if user == "" || host == "" || dbName == "" {
		return "", fmt.Errorf("incomplete dsn: user, host and database are required")
	}

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC",
		user, pass, host, dbName), nil
}
