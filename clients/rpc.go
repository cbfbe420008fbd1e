package clients

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vitwit/walletlink/types"
)

var _ NetworkProvider = (*RPCNetworkProvider)(nil)

// RPCNetworkProvider tracks the active network by its JSON-RPC endpoint and
// switches by dialing the target network's RPC URL.
type RPCNetworkProvider struct {
	mu      sync.Mutex
	client  *ethclient.Client
	chainID string
}

// NewRPCNetworkProvider dials rpcURL and reads its chain id.
func NewRPCNetworkProvider(ctx context.Context, rpcURL string) (*RPCNetworkProvider, error) {
	client, chainID, err := dialChain(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &RPCNetworkProvider{client: client, chainID: chainID}, nil
}

func dialChain(ctx context.Context, rpcURL string) (*ethclient.Client, string, error) {
	if rpcURL == "" {
		return nil, "", fmt.Errorf("rpc url is empty")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, "", fmt.Errorf("failed to read chain id: %w", err)
	}
	return client, id.String(), nil
}

// ActiveChainID implements NetworkProvider.
func (p *RPCNetworkProvider) ActiveChainID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID
}

// SwitchNetwork implements NetworkProvider.
func (p *RPCNetworkProvider) SwitchNetwork(ctx context.Context, network types.NetworkInfo) error {
	client, chainID, err := dialChain(ctx, network.RPCUrl)
	if err != nil {
		return fmt.Errorf("switch to %s: %w", network.Name, err)
	}
	if chainID != network.ChainID {
		client.Close()
		return fmt.Errorf("switch to %s: endpoint reports chain %s, want %s", network.Name, chainID, network.ChainID)
	}

	p.mu.Lock()
	old := p.client
	p.client = client
	p.chainID = chainID
	p.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Close releases the RPC connection.
func (p *RPCNetworkProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

// StaticNetworkProvider keeps the active chain id in memory. Switching only
// updates the id. Useful for hosts that manage RPC connections elsewhere.
type StaticNetworkProvider struct {
	mu      sync.Mutex
	chainID string
}

func NewStaticNetworkProvider(chainID string) *StaticNetworkProvider {
	return &StaticNetworkProvider{chainID: chainID}
}

func (p *StaticNetworkProvider) ActiveChainID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID
}

func (p *StaticNetworkProvider) SwitchNetwork(_ context.Context, network types.NetworkInfo) error {
	p.mu.Lock()
	p.chainID = network.ChainID
	p.mu.Unlock()
	return nil
}
