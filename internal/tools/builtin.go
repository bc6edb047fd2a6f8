package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentboard/agentboard/internal/workflow"
)

// RegisterBuiltins installs the default tool set. fileRoot is the
// directory file_operations is confined to; empty disables that tool.
func RegisterBuiltins(r *Registry, fileRoot string) error {
	search := NewWebSearchTool()
	builtins := []struct {
		def workflow.Tool
		h   Handler
	}{
		{webSearchDefinition(), search.Handle},
		{fetchRSSDefinition(), fetchRSSHandler},
		{executeCodeDefinition(), executeCodeHandler},
		{analyzeDataDefinition(), analyzeDataHandler},
	}
	if fileRoot != "" {
		builtins = append(builtins, struct {
			def workflow.Tool
			h   Handler
		}{fileOperationsDefinition(), fileOperationsHandler(fileRoot)})
	}

	for _, b := range builtins {
		if err := r.Register(b.def, b.h); err != nil {
			return fmt.Errorf("register builtin %s: %w", b.def.Name, err)
		}
	}
	slog.Info("registered builtin tools", "count", len(builtins))
	return nil
}

func executeCodeDefinition() workflow.Tool {
	return workflow.Tool{
		Name:         "execute_code",
		FunctionName: "execute_python",
		Description:  "Execute Python code and return the result",
		Parameters: map[string]workflow.ParameterSpec{
			"code": {
				Type:        workflow.TypeString,
				Description: "Python code to execute",
				Required:    true,
			},
			"timeout": {
				Type:        workflow.TypeInteger,
				Description: "Maximum execution time in seconds",
				Default:     30,
			},
		},
		RequiresConfirmation: true,
		AlwaysAvailable:      true,
	}
}

// executeCodeHandler does not run untrusted code. It records the
// request and returns a placeholder, the same contract a sandboxed
// runner would fill in.
func executeCodeHandler(_ context.Context, params map[string]any) (any, error) {
	code, _ := params["code"].(string)
	timeout, _ := params["timeout"].(int64)
	slog.Info("code execution requested", "bytes", len(code), "timeout", timeout)
	return map[string]any{
		"output":  "Code execution simulated for development purposes. Here would be the output.",
		"success": true,
	}, nil
}

func analyzeDataDefinition() workflow.Tool {
	return workflow.Tool{
		Name:         "analyze_data",
		FunctionName: "analyze_data",
		Description:  "Analyze data from a file or URL",
		Parameters: map[string]workflow.ParameterSpec{
			"data_source": {
				Type:        workflow.TypeString,
				Description: "Path or URL to data source",
				Required:    true,
			},
			"analysis_type": {
				Type:        workflow.TypeString,
				Description: "Type of analysis to perform",
				Enum:        []any{"summary", "correlation", "visualization"},
				Default:     "summary",
			},
		},
		AlwaysAvailable: true,
	}
}

func analyzeDataHandler(_ context.Context, params map[string]any) (any, error) {
	source, _ := params["data_source"].(string)
	analysisType, _ := params["analysis_type"].(string)

	var analysis map[string]any
	switch analysisType {
	case "summary":
		analysis = map[string]any{
			"count":  100,
			"mean":   42.5,
			"median": 41.2,
			"std":    12.3,
		}
	case "correlation":
		analysis = map[string]any{
			"correlation_matrix": "Correlation matrix would be here in production",
		}
	case "visualization":
		analysis = map[string]any{
			"visualization_type": "In production, this would contain visualization data or a URL",
		}
	default:
		return nil, fmt.Errorf("unknown analysis type: %s", analysisType)
	}

	return map[string]any{
		"analysis": analysis,
		"type":     analysisType,
		"source":   source,
		"success":  true,
	}, nil
}

func fileOperationsDefinition() workflow.Tool {
	return workflow.Tool{
		Name:         "file_operations",
		FunctionName: "file_ops",
		Description:  "Read or write files in the workspace directory",
		Parameters: map[string]workflow.ParameterSpec{
			"operation": {
				Type:        workflow.TypeString,
				Description: "Operation to perform",
				Required:    true,
				Enum:        []any{"read", "write", "append"},
			},
			"file_path": {
				Type:        workflow.TypeString,
				Description: "Path to the file, relative to the workspace",
				Required:    true,
			},
			"content": {
				Type:        workflow.TypeString,
				Description: "Content to write (for write/append operations)",
			},
		},
		RequiresConfirmation: true,
		AlwaysAvailable:      true,
	}
}

// fileOperationsHandler confines all paths to root; traversal outside
// it is rejected.
func fileOperationsHandler(root string) Handler {
	return func(_ context.Context, params map[string]any) (any, error) {
		operation, _ := params["operation"].(string)
		relPath, _ := params["file_path"].(string)

		full := filepath.Join(root, filepath.Clean("/"+relPath))
		if !strings.HasPrefix(full, filepath.Clean(root)+string(os.PathSeparator)) {
			return nil, fmt.Errorf("file path escapes workspace: %s", relPath)
		}

		switch operation {
		case "read":
			data, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", relPath, err)
			}
			return map[string]any{
				"content": string(data),
				"success": true,
			}, nil

		case "write", "append":
			content, _ := params["content"].(string)
			if content == "" {
				return nil, fmt.Errorf("content is required for %s operations", operation)
			}
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return nil, fmt.Errorf("create directory: %w", err)
			}
			flags := os.O_CREATE | os.O_WRONLY
			if operation == "append" {
				flags |= os.O_APPEND
			} else {
				flags |= os.O_TRUNC
			}
			f, err := os.OpenFile(full, flags, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", relPath, err)
			}
			n, err := f.WriteString(content)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", operation, relPath, err)
			}
			return map[string]any{
				"bytes_written": n,
				"success":       true,
			}, nil

		default:
			return nil, fmt.Errorf("unknown operation: %s", operation)
		}
	}
}
