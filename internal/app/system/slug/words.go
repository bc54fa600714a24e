package slug

// Adjectives is the first slug segment.
var Adjectives = []string{
	"able", "absolute", "active", "adorable", "agile", "alert", "amused", "ancient",
	"anxious", "arctic", "awake", "bold", "brave", "bright", "brisk", "busy", "calm",
	"careful", "casual", "cheerful", "clever", "cosy", "crisp", "curious", "daring",
	"dazzling", "decent", "eager", "early", "earnest", "easy", "elegant", "endless",
	"energetic", "fair", "faithful", "famous", "fancy", "fast", "fearless", "fine",
	"fluffy", "fond", "free", "fresh", "friendly", "gentle", "giant", "glad", "gleaming",
	"golden", "graceful", "grand", "happy", "hardy", "harmless", "honest", "humble",
	"hungry", "icy", "jolly", "joyful", "keen", "kind", "lively", "lone", "loud", "loyal",
	"lucky", "magic", "merry", "mighty", "modest", "neat", "nimble", "noble", "odd",
	"patient", "playful", "polite", "proud", "quick", "quiet", "rapid", "rare", "ready",
	"regal", "rich", "robust", "rosy", "royal", "rustic", "sharp", "shiny", "shy", "silent",
	"silly", "sleek", "smart", "smooth", "snowy", "soft", "solid", "speedy", "spry",
	"steady", "stormy", "strong", "sunny", "swift", "tender", "tidy", "tiny", "tough",
	"tranquil", "trusty", "vivid", "warm", "wild", "wise", "witty", "young", "zany",
	"zealous",
}

// Colors is the second slug segment.
var Colors = []string{
	"amber", "apricot", "aqua", "azure", "beige", "black", "blue", "bronze", "brown",
	"burgundy", "cerulean", "charcoal", "chocolate", "coffee", "copper", "coral", "cream",
	"crimson", "cyan", "emerald", "fuchsia", "gold", "gray", "green", "indigo", "ivory",
	"jade", "khaki", "lavender", "lemon", "lilac", "lime", "magenta", "maroon", "mauve",
	"mint", "navy", "ochre", "olive", "orange", "orchid", "peach", "pink", "plum", "purple",
	"red", "rose", "ruby", "saffron", "salmon", "sapphire", "scarlet", "silver", "tan",
	"teal", "turquoise", "violet", "white", "yellow",
}

// Animals is the third slug segment.
var Animals = []string{
	"albatross", "alpaca", "ant", "antelope", "armadillo", "badger", "bat", "bear",
	"beaver", "bee", "beetle", "bison", "boar", "buffalo", "camel", "canary", "capybara",
	"cardinal", "caribou", "cat", "chameleon", "cheetah", "chicken", "chinchilla", "cobra",
	"cod", "condor", "cougar", "cow", "coyote", "crab", "crane", "crow", "deer", "dingo",
	"dolphin", "donkey", "dove", "dragonfly", "duck", "eagle", "eel", "elephant", "elk",
	"emu", "falcon", "ferret", "finch", "flamingo", "fox", "frog", "gazelle", "gecko",
	"gerbil", "giraffe", "goat", "goose", "gorilla", "grasshopper", "gull", "hamster",
	"hare", "hawk", "hedgehog", "heron", "hippo", "hornet", "horse", "hummingbird", "hyena",
	"ibis", "iguana", "impala", "jackal", "jaguar", "jellyfish", "kangaroo", "kingfisher",
	"kiwi", "koala", "lemur", "leopard", "lion", "lizard", "llama", "lobster", "lynx",
	"macaw", "magpie", "manatee", "marmot", "meerkat", "mink", "mole", "mongoose", "moose",
	"moth", "mouse", "narwhal", "newt", "octopus", "opossum", "orca", "ostrich", "otter",
	"owl", "ox", "panda", "panther", "parrot", "peacock", "pelican", "penguin", "pheasant",
	"pigeon", "platypus", "porcupine", "puffin", "puma", "quail", "rabbit", "raccoon",
	"raven", "reindeer", "rhino", "robin", "salamander", "salmon", "seal", "shark", "sheep",
	"sloth", "snail", "sparrow", "spider", "squid", "squirrel", "starling", "stork", "swan",
	"tapir", "tiger", "toad", "toucan", "trout", "turkey", "turtle", "viper", "vulture",
	"walrus", "wasp", "weasel", "whale", "wolf", "wombat", "woodpecker", "yak", "zebra",
}
