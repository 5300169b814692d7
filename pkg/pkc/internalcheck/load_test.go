package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/pkcdemo/pkc-go"

// enginePackages are the packages that handle key material.
var enginePackages = []string{
	modulePath + "/pkg/pkc",
	modulePath + "/pkg/pkc/rsa",
	modulePath + "/pkg/pkc/elgamal",
	modulePath + "/pkg/pkc/ecc",
}

func load(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	return pkgs
}
