package location

// cityOrder preserves a stable listing order for Supported.
var cityOrder = []string{"kansas city", "boston", "los angeles", "miami", "denver"}

// cities is the static knowledge base, keyed by normalized city name.
var cities = map[string]City{
	"kansas city": {
		Name:           "Kansas City",
		State:          "Missouri",
		Region:         "midwest",
		Climate:        "temperate",
		FitnessProfile: []string{"BBQ culture", "Football town", "Baseball heritage"},
		Teams: []Team{
			{Name: "Chiefs", League: "NFL", Colors: []string{"#E31837", "#FFB81C"}, Season: SeasonFall},
			{Name: "Royals", League: "MLB", Colors: []string{"#004687", "#BD9B60"}, Season: SeasonSpring},
			{Name: "Sporting KC", League: "MLS", Colors: []string{"#93B1D7", "#8BB8E8"}, Season: SeasonSpring},
		},
		Events: []LocalEvent{
			{Name: "NFL Draft Day", Type: EventSports, Timing: SeasonSpring, Description: "Perfect for Chiefs-themed events"},
			{Name: "Royals Opening Day", Type: EventSports, Timing: SeasonSpring, Description: "Baseball season kickoff"},
			{Name: "BBQ Festival Season", Type: EventFestival, Timing: SeasonSummer, Description: "Local BBQ culture celebration"},
		},
	},
	"boston": {
		Name:           "Boston",
		State:          "Massachusetts",
		Region:         "northeast",
		Climate:        "cold",
		FitnessProfile: []string{"Marathon city", "Sports obsessed", "College town"},
		Teams: []Team{
			{Name: "Patriots", League: "NFL", Colors: []string{"#002244", "#C60C30"}, Season: SeasonFall},
			{Name: "Celtics", League: "NBA", Colors: []string{"#007A33", "#BA9653"}, Season: SeasonWinter},
			{Name: "Red Sox", League: "MLB", Colors: []string{"#BD3039", "#0C2340"}, Season: SeasonSpring},
			{Name: "Bruins", League: "NHL", Colors: []string{"#FFB81C", "#000000"}, Season: SeasonWinter},
		},
		Events: []LocalEvent{
			{Name: "Boston Marathon", Type: EventMarathon, Timing: SeasonSpring, Description: "World-famous marathon event"},
			{Name: "Celtics Playoff Run", Type: EventSports, Timing: SeasonSpring, Description: "NBA playoffs excitement"},
			{Name: "Red Sox Season", Type: EventSports, Timing: SeasonSpring, Description: "Fenway Park baseball season"},
		},
	},
	"los angeles": {
		Name:           "Los Angeles",
		State:          "California",
		Region:         "west",
		Climate:        "hot",
		FitnessProfile: []string{"Beach culture", "Fitness lifestyle", "Year-round outdoor activity"},
		Teams: []Team{
			{Name: "Lakers", League: "NBA", Colors: []string{"#552583", "#FDB927"}, Season: SeasonWinter},
			{Name: "Dodgers", League: "MLB", Colors: []string{"#005A9C", "#FFFFFF"}, Season: SeasonSpring},
			{Name: "Rams", League: "NFL", Colors: []string{"#003594", "#FFA300"}, Season: SeasonFall},
		},
		Events: []LocalEvent{
			{Name: "Beach Season", Type: EventSeasonal, Timing: SeasonSummer, Description: "Peak beach and outdoor activity"},
			{Name: "Lakers Season", Type: EventSports, Timing: SeasonWinter, Description: "NBA season excitement"},
			{Name: "LA Marathon", Type: EventMarathon, Timing: SeasonSpring, Description: "Major west coast marathon"},
		},
	},
	"miami": {
		Name:           "Miami",
		State:          "Florida",
		Region:         "southeast",
		Climate:        "hot",
		FitnessProfile: []string{"Beach body culture", "Latin fitness", "Year-round outdoor"},
		Teams: []Team{
			{Name: "Heat", League: "NBA", Colors: []string{"#98002E", "#F9A01B"}, Season: SeasonWinter},
			{Name: "Dolphins", League: "NFL", Colors: []string{"#008E97", "#FC4C02"}, Season: SeasonFall},
		},
		Events: []LocalEvent{
			{Name: "Art Basel", Type: EventCultural, Timing: SeasonWinter, Description: "International art and culture"},
			{Name: "Spring Break Season", Type: EventSeasonal, Timing: SeasonSpring, Description: "Peak beach season"},
			{Name: "Hurricane Season Prep", Type: EventSeasonal, Timing: SeasonSummer, Description: "Community preparedness events"},
		},
	},
	"denver": {
		Name:           "Denver",
		State:          "Colorado",
		Region:         "west",
		Climate:        "cold",
		FitnessProfile: []string{"Outdoor lifestyle", "Mountain sports", "Altitude training"},
		Teams: []Team{
			{Name: "Broncos", League: "NFL", Colors: []string{"#FB4F14", "#002244"}, Season: SeasonFall},
			{Name: "Nuggets", League: "NBA", Colors: []string{"#0E2240", "#FEC524"}, Season: SeasonWinter},
			{Name: "Rockies", League: "MLB", Colors: []string{"#33006F", "#C4CED4"}, Season: SeasonSpring},
		},
		Events: []LocalEvent{
			{Name: "Ski Season", Type: EventSeasonal, Timing: SeasonWinter, Description: "Peak mountain sports season"},
			{Name: "Hiking Season", Type: EventSeasonal, Timing: SeasonSummer, Description: "Mountain outdoor activities"},
			{Name: "Denver Marathon", Type: EventMarathon, Timing: SeasonFall, Description: "High-altitude marathon challenge"},
		},
	},
}
