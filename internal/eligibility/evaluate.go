package eligibility

import (
	"smartbanner/internal/platform"
	"smartbanner/internal/suppression"
)

// Reason explains a verdict. Eligible is the only reason that lets a
// banner through.
type Reason string

const (
	Eligible             Reason = "eligible"
	UnresolvedPlatform   Reason = "unresolved_platform"
	NativeSupportPresent Reason = "native_support"
	Standalone           Reason = "standalone"
	SuppressedClosed     Reason = "suppressed_closed"
	SuppressedInstalled  Reason = "suppressed_installed"
	UnresolvedIdentifier Reason = "unresolved_identifier"
	RenderFailed         Reason = "render_failed"
)

// Input is everything the decision depends on.
type Input struct {
	// Variant is the platform after any forced override.
	Variant    platform.Variant
	Device     platform.Detection
	Standalone bool
	InstanceID string
	Store      suppression.Store
}

// Evaluate returns the first reason that suppresses the banner, or Eligible.
// Identifier resolution is checked separately by the caller.
func Evaluate(in Input) Reason {
	switch {
	case in.Variant == platform.None:
		return UnresolvedPlatform
	case in.Variant == platform.IOS && in.Device.MobileSafari && in.Device.NativeSupport:
		return NativeSupportPresent
	case in.Standalone:
		return Standalone
	}
	if in.Store != nil {
		if _, ok := in.Store.Get(suppression.ClosedKey(in.InstanceID)); ok {
			return SuppressedClosed
		}
		if _, ok := in.Store.Get(suppression.InstalledKey); ok {
			return SuppressedInstalled
		}
	}
	return Eligible
}
