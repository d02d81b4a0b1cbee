package plugin

import (
	"context"
	"fmt"
	"os/exec"

	hcplugin "github.com/hashicorp/go-plugin"

	"github.com/tarotara/tarotara/internal/intent"
	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/reading"
	"github.com/tarotara/tarotara/internal/session"
)

// Open launches a plugin binary and dispenses its interpreter. The returned
// close function kills the subprocess.
func Open(path string) (Interpreter, func(), error) {
	client := hcplugin.NewClient(&hcplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(path), // #nosec G204
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to connect to plugin %s: %w", path, err)
	}

	raw, err := rpcClient.Dispense("interpreter")
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to dispense interpreter from %s: %w", path, err)
	}

	interp, ok := raw.(Interpreter)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("plugin %s does not implement the interpreter contract", path)
	}

	return interp, client.Kill, nil
}

// WrapGenerator decorates a generator so every interpretation passes through
// the plugin. Plugin failures keep the original interpretation.
func WrapGenerator(gen reading.Generator, interp Interpreter, obs *observe.Observer) reading.Generator {
	return &decoratedGenerator{inner: gen, interp: interp, observe: obs}
}

type decoratedGenerator struct {
	inner   reading.Generator
	interp  Interpreter
	observe *observe.Observer
}

func (d *decoratedGenerator) Generate(ctx context.Context, question string, label intent.Label, history []session.Turn) (*reading.Result, error) {
	result, err := d.inner.Generate(ctx, question, label, history)
	if err != nil {
		return nil, err
	}

	refined, err := d.interp.Interpret(question, string(label), result.Cards, result.Interpretation)
	if err != nil {
		d.observe.Log().Warn().Err(err).Msg("interpreter plugin failed, keeping original interpretation")
		return result, nil
	}
	if refined != "" {
		result.Interpretation = refined
	}
	return result, nil
}
