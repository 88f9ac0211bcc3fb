package build

// Version is overridden at link time with -ldflags "-X github.com/integrail/aibarnes/internal/build.Version=..."
var Version = "dev"
