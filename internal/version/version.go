package version

// Version é reportado pelo /health
const Version = "1.0.0"

// Platform identifica esta implementação do gateway no /health
const Platform = "go"
