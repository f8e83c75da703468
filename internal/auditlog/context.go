package auditlog

import (
	"context"
	"strings"
)

// Metadata describes who triggered the operations running under a context.
// Record copies it onto every entry written with that context.
type Metadata struct {
	Actor string // "cli" or "api"
	Args  string // redacted command line or "METHOD /path"
}

type metadataKey struct{}

// WithMetadata returns a child context carrying meta. Empty fields inherit
// whatever an outer call already set, so a CLI subcommand can refine Args
// without losing Actor.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	outer := MetadataFromContext(ctx)
	if meta.Actor == "" {
		meta.Actor = outer.Actor
	}
	if meta.Args == "" {
		meta.Args = outer.Args
	}
	return context.WithValue(ctx, metadataKey{}, meta)
}

func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

const redacted = "<redacted>"

// secretFlag reports whether a long flag carries a credential, e.g.
// --password, --admin-password or --token.
func secretFlag(flag string) bool {
	name, ok := strings.CutPrefix(flag, "--")
	if !ok {
		return false
	}
	return strings.HasSuffix(name, "password") || strings.HasSuffix(name, "token") || strings.HasSuffix(name, "secret")
}

// RedactArgs masks the values of credential flags in both the
// "--flag value" and "--flag=value" forms.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if flag, _, ok := strings.Cut(arg, "="); ok && secretFlag(flag) {
			out[i] = flag + "=" + redacted
			continue
		}
		out[i] = arg
		if secretFlag(arg) && i+1 < len(args) {
			i++
			out[i] = redacted
		}
	}
	return out
}

// CommandLine renders args the way they are stored in the Args column.
func CommandLine(args []string) string {
	return strings.Join(RedactArgs(args), " ")
}
