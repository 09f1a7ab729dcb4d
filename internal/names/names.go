package names

import (
	"hash/crc32"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// adjectives and nouns are the word pools for generated display names.
// Order matters: the index math below must stay stable so the same IP
// always maps to the same name.
var adjectives = []string{
	"Sneaky", "Dizzy", "Funky", "Wacky", "Silly", "Goofy", "Crazy", "Lazy",
	"Bouncy", "Fluffy", "Grumpy", "Happy", "Sleepy", "Jumpy", "Clumsy", "Nerdy",
	"Quirky", "Sassy", "Spicy", "Fancy", "Jolly", "Mighty", "Tiny", "Giant",
	"Swift", "Slow", "Loud", "Quiet", "Brave", "Shy", "Wild", "Calm",
	"Sparkly", "Shiny", "Rusty", "Golden", "Silver", "Purple", "Rainbow", "Cosmic",
	"Electric", "Frozen", "Blazing", "Dancing", "Flying", "Swimming", "Hopping", "Rolling",
}

var nouns = []string{
	"Potato", "Banana", "Pickle", "Muffin", "Waffle", "Pancake", "Cookie", "Donut",
	"Penguin", "Llama", "Unicorn", "Dragon", "Ninja", "Pirate", "Robot", "Wizard",
	"Panda", "Koala", "Narwhal", "Octopus", "Jellyfish", "Hamster", "Squirrel", "Raccoon",
	"Taco", "Burrito", "Pizza", "Sushi", "Noodle", "Dumpling", "Pretzel", "Bagel",
	"Thunder", "Lightning", "Comet", "Meteor", "Galaxy", "Nebula", "Asteroid", "Planet",
	"Cactus", "Mushroom", "Pineapple", "Coconut", "Avocado", "Broccoli", "Carrot", "Tomato",
	"Bubble", "Sparkle", "Glitter", "Rocket", "Satellite", "Spaceship", "UFO", "Alien",
}

// Generate derives a display name of the form <Adjective><Noun><3-digit number>
// from an IP address string. It is a pure function: the same IP always
// produces the same name, across calls and restarts. Different IPs may
// collide; that is acceptable for anonymous chat.
func Generate(ip string) string {
	seed := crc32.ChecksumIEEE([]byte(ip))

	adj := adjectives[seed%uint32(len(adjectives))]
	noun := nouns[(seed*7)%uint32(len(nouns))]
	number := seed%900 + 100

	return adj + noun + strconv.Itoa(int(number))
}

// ClientIP extracts the requester's IP, preferring proxy-supplied headers
// over the peer address. Headers are client-controlled and spoofable; this
// is a display heuristic, not a security control.
func ClientIP(r *http.Request) string {
	ip := r.Header.Get("Client-IP")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	// Proxy chains arrive comma-separated; take the first hop.
	if idx := strings.IndexByte(ip, ','); idx != -1 {
		ip = ip[:idx]
	}
	return strings.TrimSpace(ip)
}
