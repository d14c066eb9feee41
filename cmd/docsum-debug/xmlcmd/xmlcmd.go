// package xmlcmd implements the "docsum-debug xml" subcommands: build,
// diff, prove and verify against XML documents.
package xmlcmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/mmsapre/docmerkle/internal/atomicfile"
	"github.com/mmsapre/docmerkle/internal/options"
	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/diff"
	"github.com/mmsapre/docmerkle/pkg/extract"
	"github.com/mmsapre/docmerkle/pkg/log"
	"github.com/mmsapre/docmerkle/pkg/merkle"
	"github.com/mmsapre/docmerkle/pkg/payload"
	"github.com/mmsapre/docmerkle/pkg/report"
	"github.com/mmsapre/docmerkle/pkg/xmlmerkle"
)

const usage = `
docsum-debug xml builds Merkle commitments over XML documents, diffs
two commitments, and proves/verifies inclusion of a path.

Usage:

  docsum-debug xml help
    Outputs a usage message

  docsum-debug xml build FILE [--output OUT]
    Prints the document's root hash; with --output, also writes the
    full payload record as JSON

  docsum-debug xml diff OLD NEW [--ancestors] [--extract CONFIG] [--output OUT]
    Prints a change summary between OLD and NEW

  docsum-debug xml prove FILE PATH [--output OUT]
    Writes an inclusion proof for PATH in FILE's document

  docsum-debug xml verify FILE PATH --leaf-hash H --root R
    Recomputes PATH's leaf hash from FILE and checks it against H and
    the proof root against R
`

var (
	optOutput, optExtract, optLeafHash, optRoot string
	optAncestors                                bool
)

func Main(args []string) error {
	opt := options.New(args, func() { fmt.Print(usage[1:]) }, setOptions)
	var err error
	switch opt.Name() {
	case "help", "":
		opt.Usage()
	case "build":
		err = runBuild(opt.Args())
	case "diff":
		err = runDiff(opt.Args())
	case "prove":
		err = runProve(opt.Args())
	case "verify":
		err = runVerify(opt.Args())
	default:
		err = fmt.Errorf("invalid command %q, try \"help\"", opt.Name())
	}
	if err != nil {
		format := " %s: %w"
		if len(opt.Name()) == 0 {
			format = "%s: %w"
		}
		return fmt.Errorf(format, opt.Name(), err)
	}
	return nil
}

func setOptions(fs *flag.FlagSet) {
	switch fs.Name() {
	case "build", "diff", "prove":
		options.AddString(fs, &optOutput, "o", "output", "")
	}
	switch fs.Name() {
	case "diff":
		options.AddBool(fs, &optAncestors, "ancestors", false)
		options.AddString(fs, &optExtract, "e", "extract", "")
	case "verify":
		fs.StringVar(&optLeafHash, "leaf-hash", "", "")
		fs.StringVar(&optRoot, "root", "", "")
	}
}

func rootSegmentOf(pathHashes map[string]crypto.Hash) string {
	for p := range pathHashes {
		return diff.XMLRootSegment(diff.NormalizeXMLPath(p))
	}
	return ""
}

func runBuild(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected FILE argument")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	res, err := xmlmerkle.Build(data)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	log.Info("xmlcmd: built commitment for %s: %d leaves, root %s", args[0], len(res.PathHashes), res.Root.Hex())
	fmt.Printf("%s\n", res.Root.Hex())

	if optOutput == "" {
		return nil
	}
	cs := diff.Diff(nil, res.PathHashes, diff.IsXMLValueLeaf)
	rec := payload.FromXML(nil, res.Root, cs, optAncestors, rootSegmentOf(res.PathHashes))
	return atomicfile.Write(optOutput, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	})
}

func runDiff(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected OLD and NEW arguments")
	}
	oldData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	newData, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}
	oldRes, err := xmlmerkle.Build(oldData)
	if err != nil {
		return fmt.Errorf("build old: %w", err)
	}
	newRes, err := xmlmerkle.Build(newData)
	if err != nil {
		return fmt.Errorf("build new: %w", err)
	}
	cs := diff.Diff(oldRes.PathHashes, newRes.PathHashes, diff.IsXMLValueLeaf)
	log.Info("xmlcmd: diffed %s -> %s: %d added, %d removed, %d changed", args[0], args[1], len(cs.Added), len(cs.Removed), len(cs.Changed))
	summary := diff.BuildXMLChangeSummary(cs, optAncestors)

	if optExtract != "" {
		cfgData, err := os.ReadFile(optExtract)
		if err != nil {
			return fmt.Errorf("read extract config %s: %w", optExtract, err)
		}
		var cfg extract.XMLConfig
		if err := json.Unmarshal(cfgData, &cfg); err != nil {
			return fmt.Errorf("parse extract config: %w", err)
		}
		newDoc, err := xmlmerkle.Parse(newData)
		if err != nil {
			return fmt.Errorf("parse new document for extraction: %w", err)
		}
		result, err := extract.ExtractXML(newDoc, cfg, extract.MiniEngine{})
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		summary.Extracted = result
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if optOutput == "" {
		return nil
	}
	return atomicfile.Write(optOutput, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	})
}

func runProve(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected FILE and PATH arguments")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	res, err := xmlmerkle.Build(data)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	proof, err := xmlmerkle.Prove(data, args[1])
	if err != nil {
		return fmt.Errorf("prove %s: %w", args[1], err)
	}
	doc := report.ProofDocument{
		Root:      res.Root,
		LeafIndex: proof.LeafIndex,
		LeafCount: proof.LeafCount,
		Path:      proof.Path,
	}
	if optOutput == "" {
		return report.WriteProof(os.Stdout, doc)
	}
	return atomicfile.Write(optOutput, func(w io.Writer) error {
		return report.WriteProof(w, doc)
	})
}

func runVerify(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected FILE and PATH arguments")
	}
	if optLeafHash == "" || optRoot == "" {
		return fmt.Errorf("--leaf-hash and --root are required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	res, err := xmlmerkle.Build(data)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	leafHash, ok := res.PathHashes[args[1]]
	if !ok {
		return fmt.Errorf("path %q not found", args[1])
	}
	wantLeafHash, err := crypto.HashFromHex(optLeafHash)
	if err != nil {
		return fmt.Errorf("parse --leaf-hash: %w", err)
	}
	if leafHash != wantLeafHash {
		return fmt.Errorf("leaf hash mismatch: got %s, want %s", leafHash.Hex(), wantLeafHash.Hex())
	}
	wantRoot, err := crypto.HashFromHex(optRoot)
	if err != nil {
		return fmt.Errorf("parse --root: %w", err)
	}
	proof, err := xmlmerkle.Prove(data, args[1])
	if err != nil {
		return fmt.Errorf("prove %s: %w", args[1], err)
	}
	leafPayload := merkle.EncodeLeaf(args[1], leafHash)
	if !merkle.VerifyInclusion(leafPayload, proof, wantRoot) {
		return fmt.Errorf("inclusion proof does not verify against root %s", wantRoot.Hex())
	}
	fmt.Println("OK")
	return nil
}
