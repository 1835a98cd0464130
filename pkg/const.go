package pkg

import "time"

const BackendURL = "https://12.react.pages.academy/six-cities" // Root of every API path
const ClientTimeout = 5 * time.Second                           // Timeout for HTTP requests
const DedupWindow = 5 * time.Second                             // How long a notification key stays suppressed
const TokenHeader = "x-token"
