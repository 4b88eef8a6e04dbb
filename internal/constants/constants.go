package constants

const VERSION = "0.3.0"

const USER_AGENT = "rlstats/" + VERSION + " (+https://github.com/Amund211/rlstats)"
