// Package main generates a development Certificate Authority and a server
// certificate signed by it, writing them to files under the "certs" directory.
// Point TLS_CERT and TLS_KEY at the server pair and trust ca.crt locally.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Krackerr154/glabs-website/internal/certgen"
)

const (
	caName         = "G-Labs Dev CA"
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run writes ca.crt/ca.key and server.crt/server.key into dir. An existing
// CA in dir is reused so browsers that already trust it keep working.
func run(dir string, hosts []string, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	caCert, caKey := filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")

	ca, err := certgen.LoadAuthority(caCert, caKey)
	switch {
	case err == nil:
		fmt.Fprintln(out, "Reusing CA from", caCert)
	case errors.Is(err, fs.ErrNotExist):
		if ca, err = certgen.NewAuthority(caName, caValidity); err != nil {
			return err
		}
		certPEM, keyPEM, err := ca.PEM()
		if err != nil {
			return err
		}
		if err := certgen.WriteFiles(caCert, caKey, certPEM, keyPEM); err != nil {
			return err
		}
	default:
		return err
	}

	certPEM, keyPEM, err := ca.IssueServer(hosts, serverValidity)
	if err != nil {
		return err
	}
	if err := certgen.WriteFiles(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates for %s generated into %s\n", strings.Join(hosts, ", "), dir)
	return nil
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
