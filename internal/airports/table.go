// README: Static city-to-IATA reference table (metro areas first, primary airport first).
package airports

// multiAirportCities maps metro areas served by more than one airport.
// Code order is the preference order: the primary airport comes first.
var multiAirportCities = map[string][]string{
	"london":         {"LHR", "LGW", "STN", "LTN", "LCY"},
	"new york":       {"JFK", "LGA", "EWR"},
	"paris":          {"CDG", "ORY", "BVA"},
	"tokyo":          {"NRT", "HND"},
	"milan":          {"MXP", "LIN", "BGY"},
	"rome":           {"FCO", "CIA"},
	"istanbul":       {"IST", "SAW"},
	"moscow":         {"SVO", "DME", "VKO"},
	"bangkok":        {"BKK", "DMK"},
	"chicago":        {"ORD", "MDW"},
	"los angeles":    {"LAX", "BUR", "LGB", "SNA"},
	"washington":     {"DCA", "IAD", "BWI"},
	"berlin":         {"BER", "SXF"},
	"buenos aires":   {"EZE", "AEP"},
	"rio de janeiro": {"GIG", "SDU"},
	"sao paulo":      {"GRU", "CGH", "VCP"},
	"shanghai":       {"PVG", "SHA"},
	"beijing":        {"PEK", "PKX"},
	"osaka":          {"KIX", "ITM"},
	"stockholm":      {"ARN", "BMA", "NYO"},
	"montreal":       {"YUL", "YMX"},
	"houston":        {"IAH", "HOU"},
	"miami":          {"MIA", "FLL", "PBI"},
	"dubai":          {"DXB", "DWC"},
	"tehran":         {"IKA", "THR"},
}

// singleAirportCities covers the major single-airport destinations.
var singleAirportCities = map[string][]string{
	// Europe
	"madrid":     {"MAD"},
	"barcelona":  {"BCN"},
	"amsterdam":  {"AMS"},
	"frankfurt":  {"FRA"},
	"munich":     {"MUC"},
	"zurich":     {"ZUR"},
	"vienna":     {"VIE"},
	"copenhagen": {"CPH"},
	"oslo":       {"OSL"},
	"helsinki":   {"HEL"},
	"dublin":     {"DUB"},
	"edinburgh":  {"EDI"},
	"manchester": {"MAN"},
	"brussels":   {"BRU"},
	"lisbon":     {"LIS"},
	"athens":     {"ATH"},
	"warsaw":     {"WAW"},
	"prague":     {"PRG"},
	"budapest":   {"BUD"},
	"bucharest":  {"OTP"},
	"sofia":      {"SOF"},
	"zagreb":     {"ZAG"},
	"belgrade":   {"BEG"},
	"kiev":       {"KBP"},
	"minsk":      {"MSQ"},
	"riga":       {"RIX"},
	"tallinn":    {"TLL"},
	"vilnius":    {"VNO"},

	// Middle East & Central Asia
	"doha":       {"DOH"},
	"kuwait":     {"KWI"},
	"riyadh":     {"RUH"},
	"jeddah":     {"JED"},
	"muscat":     {"MCT"},
	"abu dhabi":  {"AUH"},
	"sharjah":    {"SHJ"},
	"cairo":      {"CAI"},
	"casablanca": {"CMN"},
	"tunis":      {"TUN"},
	"algiers":    {"ALG"},
	"baku":       {"GYD"},
	"yerevan":    {"EVN"},
	"tbilisi":    {"TBS"},
	"almaty":     {"ALA"},
	"tashkent":   {"TAS"},
	"ashgabat":   {"ASB"},

	// Asia
	"delhi":        {"DEL"},
	"mumbai":       {"BOM"},
	"chennai":      {"MAA"},
	"bangalore":    {"BLR"},
	"hyderabad":    {"HYD"},
	"kolkata":      {"CCU"},
	"ahmedabad":    {"AMD"},
	"pune":         {"PNQ"},
	"cochin":       {"COK"},
	"goa":          {"GOI"},
	"singapore":    {"SIN"},
	"kuala lumpur": {"KUL"},
	"jakarta":      {"CGK"},
	"manila":       {"MNL"},
	"cebu":         {"CEB"},
	"ho chi minh":  {"SGN"},
	"hanoi":        {"HAN"},
	"phnom penh":   {"PNH"},
	"yangon":       {"RGN"},
	"dhaka":        {"DAC"},
	"karachi":      {"KHI"},
	"lahore":       {"LHE"},
	"islamabad":    {"ISB"},
	"peshawar":     {"PEW"},
	"faisalabad":   {"LYP"},
	"multan":       {"MUX"},
	"sialkot":      {"SKT"},
	"quetta":       {"UET"},
	"colombo":      {"CMB"},
	"male":         {"MLE"},
	"kathmandu":    {"KTM"},
	"kabul":        {"KBL"},
	"seoul":        {"ICN"},
	"busan":        {"PUS"},
	"hong kong":    {"HKG"},
	"macau":        {"MFM"},
	"taipei":       {"TPE"},
	"kaohsiung":    {"KHH"},

	// Africa
	"johannesburg": {"JNB"},
	"cape town":    {"CPT"},
	"durban":       {"DUR"},
	"lagos":        {"LOS"},
	"abuja":        {"ABV"},
	"nairobi":      {"NBO"},
	"addis ababa":  {"ADD"},
	"khartoum":     {"KRT"},
	"accra":        {"ACC"},
	"dakar":        {"DKR"},
	"bamako":       {"BKO"},
	"ouagadougou":  {"OUA"},
	"abidjan":      {"ABJ"},
	"douala":       {"DLA"},
	"libreville":   {"LBV"},
	"kinshasa":     {"FIH"},
	"luanda":       {"LAD"},
	"maputo":       {"MPM"},
	"antananarivo": {"TNR"},
	"mauritius":    {"MRU"},

	// Americas
	"toronto":        {"YYZ"},
	"vancouver":      {"YVR"},
	"calgary":        {"YYC"},
	"ottawa":         {"YOW"},
	"mexico city":    {"MEX"},
	"cancun":         {"CUN"},
	"guadalajara":    {"GDL"},
	"tijuana":        {"TIJ"},
	"bogota":         {"BOG"},
	"medellin":       {"MDE"},
	"lima":           {"LIM"},
	"quito":          {"UIO"},
	"guayaquil":      {"GYE"},
	"caracas":        {"CCS"},
	"la paz":         {"LPB"},
	"santa cruz":     {"VVI"},
	"asuncion":       {"ASU"},
	"montevideo":     {"MVD"},
	"santiago":       {"SCL"},
	"san francisco":  {"SFO"},
	"san diego":      {"SAN"},
	"las vegas":      {"LAS"},
	"phoenix":        {"PHX"},
	"denver":         {"DEN"},
	"atlanta":        {"ATL"},
	"orlando":        {"MCO"},
	"tampa":          {"TPA"},
	"charlotte":      {"CLT"},
	"nashville":      {"BNA"},
	"new orleans":    {"MSY"},
	"dallas":         {"DFW"},
	"austin":         {"AUS"},
	"san antonio":    {"SAT"},
	"seattle":        {"SEA"},
	"portland":       {"PDX"},
	"salt lake city": {"SLC"},
	"minneapolis":    {"MSP"},
	"detroit":        {"DTW"},
	"cleveland":      {"CLE"},
	"pittsburgh":     {"PIT"},
	"philadelphia":   {"PHL"},
	"boston":         {"BOS"},

	// Oceania
	"sydney":       {"SYD"},
	"melbourne":    {"MEL"},
	"brisbane":     {"BNE"},
	"perth":        {"PER"},
	"adelaide":     {"ADL"},
	"auckland":     {"AKL"},
	"wellington":   {"WLG"},
	"christchurch": {"CHC"},
	"suva":         {"SUV"},
	"port moresby": {"POM"},
}
