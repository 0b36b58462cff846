package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/adapter"
	"github.com/jief123/agenthub/internal/core/asset"
	"github.com/jief123/agenthub/internal/core/source"
)

// PrintErrorHints writes remediation hints carried by err, if any.
func PrintErrorHints(w io.Writer, err error) {
	var fe *source.FetchError
	if !errors.As(err, &fe) || len(fe.Hints) == 0 {
		return
	}
	fmt.Fprintln(w, "\nHints:")
	for _, h := range fe.Hints {
		fmt.Fprintf(w, "  - %s\n", h)
	}
}

// resolveTargetDir resolves the --dir flag or falls back to cwd.
func resolveTargetDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// resolveOwner returns --owner or the configured default owner.
func resolveOwner(cmd *cobra.Command) string {
	if owner, _ := cmd.Flags().GetString("owner"); owner != "" {
		return owner
	}
	return cfg.Owner
}

// target is the tool and scope an install command writes to.
type target struct {
	adapter adapter.Adapter
	scope   adapter.Scope
	method  adapter.Method
}

// resolveTarget reads --tool, --scope, --dir and, when present, --method.
func resolveTarget(cmd *cobra.Command) (*target, error) {
	dir, err := resolveTargetDir(cmd)
	if err != nil {
		return nil, err
	}
	roots, err := adapter.DefaultRoots(dir)
	if err != nil {
		return nil, err
	}

	tool, _ := cmd.Flags().GetString("tool")
	if tool == "" {
		tool = cfg.DefaultTool
	}
	a, err := adapter.Resolve(tool, roots)
	if err != nil {
		return nil, err
	}

	scopeFlag, _ := cmd.Flags().GetString("scope")
	scope, err := adapter.ParseScope(scopeFlag)
	if err != nil {
		return nil, err
	}

	t := &target{adapter: a, scope: scope, method: adapter.MethodSymlink}
	if cmd.Flags().Lookup("method") != nil {
		methodFlag, _ := cmd.Flags().GetString("method")
		if t.method, err = adapter.ParseMethod(methodFlag); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// addTargetFlags adds the flags read by resolveTarget.
func addTargetFlags(cmd *cobra.Command, withMethod bool) {
	cmd.Flags().String("tool", "", "Target tool (default from config)")
	cmd.Flags().String("scope", "workspace", "Install scope: workspace or global")
	cmd.Flags().String("dir", "", "Workspace directory (default: current directory)")
	if withMethod {
		cmd.Flags().String("method", "symlink", "Skill install method: symlink or copy")
	}
}

// resolveKinds parses the --kind flag. An empty flag means every kind.
func resolveKinds(cmd *cobra.Command) ([]asset.Kind, error) {
	flag, _ := cmd.Flags().GetString("kind")
	if flag == "" {
		return nil, nil
	}
	var kinds []asset.Kind
	for _, s := range strings.Split(flag, ",") {
		k, err := asset.ParseKind(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// printEnvHints warns about environment variables a server config expects.
func printEnvHints(name string, c asset.MCPServerConfig) {
	vars := c.EnvVarsNeeded()
	if len(vars) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s needs: %s\n",
		warningStyle.Render("Warning:"), name, strings.Join(vars, ", "))
}

// truncate shortens s to n runes for table output.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
