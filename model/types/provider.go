package types

// Provider is a logical host of named abilities reachable through the call boundary
type Provider interface {
	Name() string
	Abilities() Signatures
	Ability(name string) (Executable, error)
}

type Proxy func(base Provider) Provider
