// package main provides a tool named docsum-verify
//
// Usage:
//
//	$ docsum-verify --kind=json --path=$.a --value=1 --proof=proof.txt --root=HASH
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pborman/getopt/v2"

	"github.com/mmsapre/docmerkle/internal/version"
	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/merkle"
	"github.com/mmsapre/docmerkle/pkg/report"
)

type settings struct {
	kind      string
	path      string
	value     string
	proofFile string
	root      string
}

func main() {
	const usage = `
Verifies that a document path/value pair is included under a Merkle
root, using a proof file produced by docsum-debug's prove subcommand.

Usage: docsum-verify --kind=json|xml --path=PATH --value=VALUE --proof=PROOF --root=HASH
    Options:
      -h --help          Display this help
      -v --version       Show program version and exit
      --kind KIND        "json" or "xml"
      --path PATH        canonical path being verified
      --value VALUE      normalized value expected at PATH
      --proof PROOF      proof file written by docsum-debug's prove subcommand
      --root HASH        expected root hash, hex-encoded
`
	log.SetFlags(0)
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v" || os.Args[1] == "version") {
		version.DisplayVersion("docsum-verify")
		return
	}
	var s settings
	s.parse(os.Args, usage)

	doc, err := readProof(s.proofFile)
	if err != nil {
		log.Fatalf("parsing proof file %q failed: %v", s.proofFile, err)
	}

	wantRoot, err := crypto.HashFromHex(s.root)
	if err != nil {
		log.Fatalf("invalid --root: %v", err)
	}
	if doc.Root != wantRoot {
		log.Fatalf("proof file's root %s does not match --root %s", doc.Root.Hex(), wantRoot.Hex())
	}

	leafHash := merkle.Vhash(s.value)
	leafPayload := merkle.EncodeLeaf(s.path, leafHash)

	proof := &merkle.InclusionProof{LeafIndex: doc.LeafIndex, LeafCount: doc.LeafCount, Path: doc.Path}
	if !merkle.VerifyInclusion(leafPayload, proof, wantRoot) {
		log.Fatal("inclusion proof does not verify")
	}
	fmt.Println("OK")
}

func readProof(path string) (report.ProofDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.ProofDocument{}, err
	}
	defer f.Close()
	return report.ReadProof(f)
}

func (s *settings) parse(args []string, usage string) {
	set := getopt.New()
	set.SetProgram(args[0])

	set.FlagLong(&s.kind, "kind", 0, "\"json\" or \"xml\"")
	set.FlagLong(&s.path, "path", 0, "canonical path being verified")
	set.FlagLong(&s.value, "value", 0, "normalized value expected at path")
	set.FlagLong(&s.proofFile, "proof", 0, "proof file")
	set.FlagLong(&s.root, "root", 0, "expected root hash, hex-encoded")
	help := false
	set.FlagLong(&help, "help", 'h', "Display this help")

	if err := set.Getopt(args[1:], nil); err != nil {
		fmt.Print(usage[1:])
		log.Fatalf("%v", err)
	}
	if help {
		fmt.Print(usage[1:])
		os.Exit(0)
	}
	if s.kind != "json" && s.kind != "xml" {
		log.Fatalf("--kind must be \"json\" or \"xml\", got %q", s.kind)
	}
	if len(s.path) == 0 {
		log.Fatal("--path is required")
	}
	if len(s.proofFile) == 0 {
		log.Fatal("--proof is required")
	}
	if len(s.root) == 0 {
		log.Fatal("--root is required")
	}
}
