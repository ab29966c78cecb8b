package spelling

// commonMisspellings maps frequent misspellings to their corrections.
// Map hits are emitted at high confidence without consulting the oracle.
var commonMisspellings = map[string]string{
	"teh":         "the",
	"adn":         "and",
	"nad":         "and",
	"taht":        "that",
	"thta":        "that",
	"waht":        "what",
	"wich":        "which",
	"whith":       "with",
	"becuase":     "because",
	"beacuse":     "because",
	"becasue":     "because",
	"recieve":     "receive",
	"recieved":    "received",
	"beleive":     "believe",
	"beleif":      "belief",
	"acheive":     "achieve",
	"definately":  "definitely",
	"definatly":   "definitely",
	"seperate":    "separate",
	"seperately":  "separately",
	"occured":     "occurred",
	"occurence":   "occurrence",
	"untill":      "until",
	"alot":        "a lot",
	"thier":       "their",
	"freind":      "friend",
	"freinds":     "friends",
	"adress":      "address",
	"tommorow":    "tomorrow",
	"tommorrow":   "tomorrow",
	"wierd":       "weird",
	"calender":    "calendar",
	"embarass":    "embarrass",
	"embarassing": "embarrassing",
	"enviroment":  "environment",
	"goverment":   "government",
	"gaurd":       "guard",
	"grammer":     "grammar",
	"writeing":    "writing",
	"writting":    "writing",
	"truely":      "truly",
	"arguement":   "argument",
	"accomodate":  "accommodate",
	"apparantly":  "apparently",
	"basicly":     "basically",
	"comming":     "coming",
	"commited":    "committed",
	"dissapoint":  "disappoint",
	"existance":   "existence",
	"familar":     "familiar",
	"finaly":      "finally",
	"foward":      "forward",
	"happend":     "happened",
	"immediatly":  "immediately",
	"knowlege":    "knowledge",
	"neccessary":  "necessary",
	"necesary":    "necessary",
	"noticable":   "noticeable",
	"occasionaly": "occasionally",
	"posession":   "possession",
	"probaly":     "probably",
	"publically":  "publicly",
	"realy":       "really",
	"refered":     "referred",
	"rember":      "remember",
	"remeber":     "remember",
	"succesful":   "successful",
	"sucessful":   "successful",
	"suprise":     "surprise",
	"threshhold":  "threshold",
	"tounge":      "tongue",
	"usualy":      "usually",
	"withing":     "within",
}

// stopwords are words never flagged regardless of what the oracle says.
// They cover high-frequency function words plus contractions fragments the
// tokenizer may produce.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "day": {}, "get": {}, "has": {},
	"him": {}, "his": {}, "how": {}, "man": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "its": {},
	"did": {}, "yes": {}, "she": {}, "may": {}, "say": {}, "use": {},
	"that": {}, "with": {}, "have": {}, "this": {}, "will": {}, "your": {},
	"from": {}, "they": {}, "know": {}, "want": {}, "been": {}, "good": {},
	"much": {}, "some": {}, "time": {}, "very": {}, "when": {}, "come": {},
	"here": {}, "just": {}, "like": {}, "long": {}, "make": {}, "many": {},
	"more": {}, "only": {}, "over": {}, "such": {}, "take": {}, "than": {},
	"them": {}, "well": {}, "were": {}, "what": {},
	"dont": {}, "cant": {}, "wont": {}, "isnt": {}, "arent": {},
	"ive": {}, "im": {}, "id": {}, "ill": {}, "youre": {}, "theyre": {},
	"wasnt": {}, "werent": {}, "didnt": {}, "doesnt": {}, "couldnt": {},
}
