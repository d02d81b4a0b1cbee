package plugin

import (
	"context"
	"errors"
	"io"
	"net"
	"net/rpc"
	"strings"
	"testing"

	"github.com/tarotara/tarotara/internal/intent"
	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/reading"
	"github.com/tarotara/tarotara/internal/session"
)

type mockInterpreter struct {
	err error
}

func (m *mockInterpreter) Name() string { return "mock" }

func (m *mockInterpreter) Interpret(question, intent string, cards []string, interpretation string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "[refined] " + interpretation, nil
}

// dialRPC wires an interpreter over a real net/rpc connection, the same
// plumbing the go-plugin transport uses.
func dialRPC(t *testing.T, impl Interpreter) Interpreter {
	t.Helper()

	server := rpc.NewServer()
	if err := server.RegisterName("Plugin", &interpreterRPCServer{Impl: impl}); err != nil {
		t.Fatalf("failed to register server: %v", err)
	}

	serverConn, clientConn := net.Pipe()
	go server.ServeConn(serverConn)

	client := rpc.NewClient(clientConn)
	t.Cleanup(func() { client.Close() })

	return &interpreterRPC{client: client}
}

func TestInterpreterRPC(t *testing.T) {
	interp := dialRPC(t, &mockInterpreter{})

	t.Run("Name", func(t *testing.T) {
		if got := interp.Name(); got != "mock" {
			t.Errorf("expected 'mock', got %q", got)
		}
	})

	t.Run("Interpret", func(t *testing.T) {
		out, err := interp.Interpret("What does the Tower mean?", "conversation", []string{"The Tower"}, "Upheaval.")
		if err != nil {
			t.Fatalf("Interpret failed: %v", err)
		}
		if out != "[refined] Upheaval." {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("Error", func(t *testing.T) {
		failing := dialRPC(t, &mockInterpreter{err: errors.New("no insight")})
		_, err := failing.Interpret("q", "general", nil, "text")
		if err == nil {
			t.Fatal("expected error from failing interpreter")
		}
		if !strings.Contains(err.Error(), "no insight") {
			t.Errorf("expected wrapped plugin error, got %v", err)
		}
	})
}

type staticGenerator struct {
	result *reading.Result
	err    error
}

func (g *staticGenerator) Generate(ctx context.Context, question string, label intent.Label, history []session.Turn) (*reading.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := *g.result
	return &out, nil
}

func TestWrapGenerator(t *testing.T) {
	obs := observe.New(io.Discard, false)
	ctx := context.Background()

	t.Run("Refines", func(t *testing.T) {
		gen := WrapGenerator(&staticGenerator{result: &reading.Result{Interpretation: "Upheaval."}}, &mockInterpreter{}, obs)
		result, err := gen.Generate(ctx, "q", intent.General, nil)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if result.Interpretation != "[refined] Upheaval." {
			t.Errorf("expected refined interpretation, got %q", result.Interpretation)
		}
	})

	t.Run("PluginFailureKeepsOriginal", func(t *testing.T) {
		gen := WrapGenerator(&staticGenerator{result: &reading.Result{Interpretation: "Upheaval."}}, &mockInterpreter{err: errors.New("down")}, obs)
		result, err := gen.Generate(ctx, "q", intent.General, nil)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if result.Interpretation != "Upheaval." {
			t.Errorf("expected original interpretation, got %q", result.Interpretation)
		}
	})

	t.Run("GeneratorFailurePropagates", func(t *testing.T) {
		gen := WrapGenerator(&staticGenerator{err: errors.New("provider down")}, &mockInterpreter{}, obs)
		if _, err := gen.Generate(ctx, "q", intent.General, nil); err == nil {
			t.Fatal("expected generator error to propagate")
		}
	})
}
