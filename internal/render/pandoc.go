package render

import "context"

// Pandoc converts Markdown with the pandoc binary. When Bibliography and CSL
// are both set, citations are processed with citeproc.
type Pandoc struct {
	Binary       string
	Katex        bool
	Bibliography string
	CSL          string
}

// Args returns the command line arguments passed to pandoc.
func (p *Pandoc) Args() []string {
	args := []string{"--from=markdown", "--to=html5"}
	if p.Katex {
		args = append(args, "--katex")
	}
	if p.Bibliography != "" && p.CSL != "" {
		args = append(args,
			"--citeproc",
			"--bibliography="+p.Bibliography,
			"--csl="+p.CSL,
		)
	}
	return args
}

// Convert implements Converter.
func (p *Pandoc) Convert(ctx context.Context, markdown string) (string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pandoc"
	}
	return run(ctx, bin, p.Args(), markdown)
}
