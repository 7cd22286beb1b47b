package spectra

// Version is the interpreter version reported by the CLI and REPL banner.
const Version = "0.1.0"
