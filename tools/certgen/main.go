// Package main generates a self-signed server certificate and key for running
// the catalog server over HTTPS, writing them under the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/CourseKeeper/internal/certgen"
)

func main() {
	var (
		dir      string
		hosts    string
		validFor time.Duration
	)
	flag.StringVar(&dir, "dir", "certs", "output directory")
	flag.StringVar(&hosts, "hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	flag.DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	flag.Parse()

	certPath, keyPath, err := run(dir, splitHosts(hosts), validFor)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificate written to %s, key to %s\n", certPath, keyPath)
}

// run generates the pair and writes server.crt and server.key into dir.
func run(dir string, hosts []string, validFor time.Duration) (string, string, error) {
	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, validFor)
	if err != nil {
		return "", "", err
	}
	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		return "", "", err
	}
	return certPath, keyPath, nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
