package metrics

// Pre-defined metrics for the toolkit. All metrics live in DefaultRegistry so
// they are globally accessible without passing a registry around.

var (
	// ---- Pairing metrics ----

	// PairingChecks counts multi-pairing product checks.
	PairingChecks = DefaultRegistry.Counter("crypto.pairing.checks")
	// PairingLatency records multi-pairing latency in milliseconds.
	PairingLatency = DefaultRegistry.Histogram("crypto.pairing.latency_ms")

	// ---- Protocol metrics ----

	// PoKVerified counts proofs of knowledge that verified.
	PoKVerified = DefaultRegistry.Counter("crypto.pok.verified")
	// PoKRejected counts proofs of knowledge that failed to verify.
	PoKRejected = DefaultRegistry.Counter("crypto.pok.rejected")
	// SigVerified counts signatures that verified.
	SigVerified = DefaultRegistry.Counter("crypto.sig.verified")
	// SigRejected counts signatures that failed to verify.
	SigRejected = DefaultRegistry.Counter("crypto.sig.rejected")

	// ---- Registry metrics ----

	// RegistryEntries tracks the number of entries in the loaded registry.
	RegistryEntries = DefaultRegistry.Gauge("registry.entries")
	// RegistryLoadTime records registry decode time in milliseconds.
	RegistryLoadTime = DefaultRegistry.Histogram("registry.load_ms")
	// ForgedEntries counts entries produced by the forge.
	ForgedEntries = DefaultRegistry.Counter("forge.entries")
)
