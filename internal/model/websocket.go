package model

// WelcomeMessage is the first text frame every WebSocket client receives.
const WelcomeMessage = "Welcome to the WebSocket server!"
