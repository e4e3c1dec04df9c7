package mojang

// Version is the published SDK version.
// 0.3.0: Realms client takes the realms environment as an option instead of an argument.
// 0.2.0: Breaking - downstream 401s surface as *StaleCredentialError instead of *APIError.
const Version = "0.3.0"

const defaultUserAgent = "mojang-go/" + Version
