// Package plugin lets external processes refine readings. An interpreter
// plugin receives the generated interpretation together with the question,
// intent and drawn cards, and returns a reworked interpretation. Plugins run
// as subprocesses over go-plugin's net/rpc transport.
package plugin

import (
	"net/rpc"

	hcplugin "github.com/hashicorp/go-plugin"
)

// HandshakeConfig is used to handshake between host and plugin.
var HandshakeConfig = hcplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TAROTARA_PLUGIN_MAGIC_COOKIE",
	MagicCookieValue: "tarotara-reading",
}

// PluginMap is the map of plugins we can dispense.
var PluginMap = map[string]hcplugin.Plugin{
	"interpreter": &InterpreterPlugin{},
}

// Interpreter is the contract an interpretation plugin implements.
type Interpreter interface {
	Name() string
	Interpret(question, intent string, cards []string, interpretation string) (string, error)
}

// InterpretArgs is the wire form of one Interpret call.
type InterpretArgs struct {
	Question       string
	Intent         string
	Cards          []string
	Interpretation string
}

// InterpreterPlugin is the hcplugin.Plugin implementation for Interpreter.
type InterpreterPlugin struct {
	Impl Interpreter
}

func (p *InterpreterPlugin) Server(*hcplugin.MuxBroker) (interface{}, error) {
	return &interpreterRPCServer{Impl: p.Impl}, nil
}

func (p *InterpreterPlugin) Client(_ *hcplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &interpreterRPC{client: c}, nil
}

// interpreterRPC is an Interpreter that forwards calls over RPC.
type interpreterRPC struct {
	client *rpc.Client
}

func (m *interpreterRPC) Name() string {
	var name string
	if err := m.client.Call("Plugin.Name", new(interface{}), &name); err != nil {
		return "unknown"
	}
	return name
}

func (m *interpreterRPC) Interpret(question, intent string, cards []string, interpretation string) (string, error) {
	args := InterpretArgs{
		Question:       question,
		Intent:         intent,
		Cards:          cards,
		Interpretation: interpretation,
	}
	var out string
	if err := m.client.Call("Plugin.Interpret", args, &out); err != nil {
		return "", err
	}
	return out, nil
}

// interpreterRPCServer dispatches RPC calls to the local implementation.
type interpreterRPCServer struct {
	Impl Interpreter
}

func (s *interpreterRPCServer) Name(_ interface{}, resp *string) error {
	*resp = s.Impl.Name()
	return nil
}

func (s *interpreterRPCServer) Interpret(args InterpretArgs, resp *string) error {
	out, err := s.Impl.Interpret(args.Question, args.Intent, args.Cards, args.Interpretation)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

// Serve runs an interpreter implementation as a plugin process. Plugin
// binaries call this from main.
func Serve(impl Interpreter) {
	hcplugin.Serve(&hcplugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]hcplugin.Plugin{
			"interpreter": &InterpreterPlugin{Impl: impl},
		},
	})
}
