package api

// HealthPath answers true while the process is up.
const HealthPath = "/health/self"
