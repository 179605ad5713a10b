package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/brightpixel/studiosite/pkg"

	log "github.com/sirupsen/logrus"
)

// admintool prepares the secrets the service reads from the environment:
//
//	admintool -hash-password        reads a password from stdin, prints ADMIN_PASSWORD_HASH
//	admintool -gen-secret -len 48   prints a random JWT_SECRET
func main() {
	hashPassword := flag.Bool("hash-password", false, "read a password from stdin and print its bcrypt hash")
	genSecret := flag.Bool("gen-secret", false, "print a random signing secret")
	secretLen := flag.Int("len", 48, "random bytes used for the generated secret")
	flag.Parse()

	switch {
	case *hashPassword:
		fmt.Fprint(os.Stderr, "password: ")
		password, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && password == "" {
			log.Fatalf("read password: %s", err)
		}
		password = strings.TrimRight(password, "\r\n")
		if password == "" {
			log.Fatalln("empty password")
		}

		hash, err := pkg.HashPassword(password)
		if err != nil {
			log.Fatalf("hash password: %s", err)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
	case *genSecret:
		secret, err := pkg.GenerateRandomString(*secretLen)
		if err != nil {
			log.Fatalf("generate secret: %s", err)
		}
		fmt.Printf("JWT_SECRET=%s\n", secret)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
