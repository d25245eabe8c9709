package platform

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
)

// Variant is the native-OS family a banner targets.
type Variant string

const (
	None    Variant = ""
	IOS     Variant = "ios"
	Android Variant = "android"
	Windows Variant = "windows"
)

// nativeBannerMinMajor is the first iOS major version whose Mobile Safari
// ships its own app banner.
const nativeBannerMinMajor = 6

// ParseVariant maps a configured platform name ("ios", "Android", ...) to a Variant.
// Unknown names yield None.
func ParseVariant(s string) Variant {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case IOS:
		return IOS
	case Android:
		return Android
	case Windows:
		return Windows
	}
	return None
}

func (v Variant) String() string {
	if v == None {
		return "none"
	}
	return string(v)
}

// Detection is what the user agent tells us about the device.
type Detection struct {
	Variant      Variant
	OS           string // ua-parser OS family, "Other" when unknown
	OSMajor      int    // 0 when unknown
	MobileSafari bool
	// NativeSupport is set when the browser already offers its own app banner.
	NativeSupport bool
}

// the regex set is large; compile it on first use only
var parser = sync.OnceValue(func() *uaparser.Parser { return uaparser.NewFromSaved() })

// Detect classifies a raw user agent string. Unknown or empty agents yield
// a Detection with Variant None.
func Detect(ua string) Detection {
	c := parser().Parse(ua)
	d := Detection{OS: c.Os.Family, OSMajor: atoi(c.Os.Major)}
	d.Variant = variantOf(c.Os)
	d.MobileSafari = c.UserAgent.Family == "Mobile Safari"
	d.NativeSupport = d.Variant == IOS && d.MobileSafari && d.OSMajor >= nativeBannerMinMajor
	return d
}

// variantOf checks Windows first: Windows Phone agents also carry
// Android and iPhone tokens.
func variantOf(os *uaparser.Os) Variant {
	switch {
	case os.Family == "Windows Phone" || os.Family == "Windows Mobile" || os.Family == "Windows CE":
		return Windows
	case os.Family == "iOS":
		return IOS
	case os.Family == "Android":
		return Android
	}
	return None
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
