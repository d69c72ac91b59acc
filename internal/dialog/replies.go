package dialog

import "fmt"

// reply keys, one per user-facing situation.
type replyKey string

const (
	replyGreeting      replyKey = "greeting"
	replyReset         replyKey = "reset"
	replyBusy          replyKey = "busy"
	replyRephrase      replyKey = "rephrase"
	replyRetryLater    replyKey = "retry_later"
	replyMemoryTrouble replyKey = "memory_trouble"
	replyNoResults     replyKey = "no_results"
	replyNoForFilter   replyKey = "no_results_filter"
	replyAskOrigin     replyKey = "ask_origin"
	replyAskDest       replyKey = "ask_destination"
	replyAskTripType   replyKey = "ask_trip_type"
	replyAskDates      replyKey = "ask_dates"
	replyAskReturn     replyKey = "ask_return"
	replySamePlace     replyKey = "same_place"
	replyUnknownPlace  replyKey = "unknown_place" // takes the place text
	replyBadDate       replyKey = "bad_date"      // takes the phrase
	replyPastDate      replyKey = "past_date"     // takes the phrase
	replyQuotaUsed     replyKey = "quota_used"
)

// catalog holds every canned reply per language. English is the
// fallback for languages or keys with no translation.
var catalog = map[string]map[replyKey]string{
	"en": {
		replyGreeting:      "Hi! I can find you flights. Where would you like to fly?",
		replyReset:         "Done, I've cleared everything. Where would you like to fly?",
		replyBusy:          "I'm still working on your previous message, one moment please.",
		replyRephrase:      "Sorry, I didn't catch that. Could you rephrase?",
		replyRetryLater:    "I couldn't reach the flight search service just now. Please try again in a few minutes.",
		replyMemoryTrouble: "Something went wrong on my side. Please send that again.",
		replyNoResults:     "I couldn't find any flights for those dates. Would you like to try different dates?",
		replyNoForFilter:   "I found flights, but none with the airline you asked for. Want me to show other airlines?",
		replyAskOrigin:     "Which city are you flying from?",
		replyAskDest:       "Where would you like to fly to?",
		replyAskTripType:   "Is this one way, or will you be coming back?",
		replyAskDates:      "When would you like to travel?",
		replyAskReturn:     "When would you like to come back?",
		replySamePlace:     "The origin and destination look like the same place. Where would you like to fly to?",
		replyUnknownPlace:  "I don't recognise %q as a city or airport. Could you try another name or an airport code?",
		replyBadDate:       "I couldn't make sense of %q as a travel date. Could you say it differently?",
		replyPastDate:      "%q looks like it's in the past. When would you like to travel?",
		replyQuotaUsed:     "You've used up your free searches for this month. Your allowance resets at the start of next month.",
	},
	"ur": {
		replyGreeting:      "السلام علیکم! میں آپ کے لیے پروازیں تلاش کر سکتا ہوں۔ آپ کہاں جانا چاہیں گے؟",
		replyReset:         "ٹھیک ہے، سب کچھ صاف کر دیا۔ آپ کہاں جانا چاہیں گے؟",
		replyBusy:          "میں ابھی آپ کے پچھلے پیغام پر کام کر رہا ہوں، ذرا انتظار کریں۔",
		replyRephrase:      "معذرت، میں سمجھ نہیں سکا۔ دوبارہ کہیں گے؟",
		replyRetryLater:    "فلائٹ سروس سے رابطہ نہیں ہو سکا۔ کچھ دیر بعد دوبارہ کوشش کریں۔",
		replyMemoryTrouble: "میری طرف سے کچھ مسئلہ ہو گیا۔ براہ کرم دوبارہ بھیجیں۔",
		replyNoResults:     "ان تاریخوں کے لیے کوئی پرواز نہیں ملی۔ کیا دوسری تاریخیں دیکھیں؟",
		replyNoForFilter:   "پروازیں ملیں مگر آپ کی پسندیدہ ایئرلائن کی نہیں۔ دوسری ایئرلائنز دکھاؤں؟",
		replyAskOrigin:     "آپ کس شہر سے سفر کریں گے؟",
		replyAskDest:       "آپ کہاں جانا چاہتے ہیں؟",
		replyAskTripType:   "یکطرفہ سفر ہے یا واپسی بھی؟",
		replyAskDates:      "آپ کب سفر کرنا چاہیں گے؟",
		replyAskReturn:     "واپسی کب چاہیں گے؟",
		replySamePlace:     "روانگی اور منزل ایک ہی جگہ لگ رہی ہیں۔ آپ کہاں جانا چاہتے ہیں؟",
		replyUnknownPlace:  "%q کو شہر یا ہوائی اڈے کے طور پر نہیں پہچان سکا۔ کوئی اور نام آزمائیں؟",
		replyBadDate:       "%q کو تاریخ کے طور پر نہیں سمجھ سکا۔ دوسرے انداز میں بتائیں؟",
		replyPastDate:      "%q گزری ہوئی تاریخ لگتی ہے۔ آپ کب سفر کرنا چاہیں گے؟",
		replyQuotaUsed:     "اس مہینے کی مفت تلاشیں ختم ہو گئی ہیں۔ اگلے مہینے کے آغاز پر دوبارہ مل جائیں گی۔",
	},
	"es": {
		replyGreeting:      "¡Hola! Puedo buscarte vuelos. ¿A dónde quieres viajar?",
		replyReset:         "Listo, lo he borrado todo. ¿A dónde quieres viajar?",
		replyBusy:          "Sigo con tu mensaje anterior, un momento por favor.",
		replyRephrase:      "Perdona, no te he entendido. ¿Puedes decirlo de otra forma?",
		replyRetryLater:    "No pude conectar con el buscador de vuelos. Inténtalo de nuevo en unos minutos.",
		replyMemoryTrouble: "Algo ha fallado por mi parte. Envíalo otra vez, por favor.",
		replyNoResults:     "No encontré vuelos para esas fechas. ¿Probamos otras fechas?",
		replyNoForFilter:   "Encontré vuelos, pero ninguno de la aerolínea que pediste. ¿Te muestro otras?",
		replyAskOrigin:     "¿Desde qué ciudad vuelas?",
		replyAskDest:       "¿A dónde quieres volar?",
		replyAskTripType:   "¿Solo ida, o también vuelta?",
		replyAskDates:      "¿Cuándo quieres viajar?",
		replyAskReturn:     "¿Cuándo quieres volver?",
		replySamePlace:     "El origen y el destino parecen el mismo lugar. ¿A dónde quieres volar?",
		replyUnknownPlace:  "No reconozco %q como ciudad o aeropuerto. ¿Pruebas con otro nombre o un código?",
		replyBadDate:       "No entendí %q como fecha de viaje. ¿Puedes decirlo de otra manera?",
		replyPastDate:      "%q parece una fecha pasada. ¿Cuándo quieres viajar?",
		replyQuotaUsed:     "Has agotado tus búsquedas gratuitas de este mes. Se renuevan a principios del próximo mes.",
	},
	"fr": {
		replyGreeting:      "Bonjour ! Je peux vous trouver des vols. Où souhaitez-vous aller ?",
		replyReset:         "C'est fait, j'ai tout effacé. Où souhaitez-vous aller ?",
		replyBusy:          "Je traite encore votre message précédent, un instant.",
		replyRephrase:      "Désolé, je n'ai pas compris. Pouvez-vous reformuler ?",
		replyRetryLater:    "Impossible de joindre le service de recherche de vols. Réessayez dans quelques minutes.",
		replyMemoryTrouble: "Un problème est survenu de mon côté. Renvoyez votre message, s'il vous plaît.",
		replyNoResults:     "Je n'ai trouvé aucun vol pour ces dates. Voulez-vous essayer d'autres dates ?",
		replyNoForFilter:   "J'ai trouvé des vols, mais aucun avec la compagnie demandée. Je vous montre les autres ?",
		replyAskOrigin:     "De quelle ville partez-vous ?",
		replyAskDest:       "Où souhaitez-vous aller ?",
		replyAskTripType:   "Aller simple, ou aller-retour ?",
		replyAskDates:      "Quand souhaitez-vous voyager ?",
		replyAskReturn:     "Quand souhaitez-vous revenir ?",
		replySamePlace:     "Le départ et la destination semblent identiques. Où souhaitez-vous aller ?",
		replyUnknownPlace:  "Je ne reconnais pas %q comme ville ou aéroport. Essayez un autre nom ou un code.",
		replyBadDate:       "Je n'ai pas compris %q comme date de voyage. Pouvez-vous la formuler autrement ?",
		replyPastDate:      "%q semble être une date passée. Quand souhaitez-vous voyager ?",
		replyQuotaUsed:     "Vous avez épuisé vos recherches gratuites ce mois-ci. Elles se renouvellent au début du mois prochain.",
	},
	"de": {
		replyGreeting:      "Hallo! Ich kann Flüge für dich finden. Wohin möchtest du fliegen?",
		replyReset:         "Erledigt, ich habe alles gelöscht. Wohin möchtest du fliegen?",
		replyBusy:          "Ich arbeite noch an deiner letzten Nachricht, einen Moment bitte.",
		replyRephrase:      "Entschuldigung, das habe ich nicht verstanden. Kannst du es anders formulieren?",
		replyRetryLater:    "Die Flugsuche ist gerade nicht erreichbar. Bitte versuche es in ein paar Minuten erneut.",
		replyMemoryTrouble: "Bei mir ist etwas schiefgelaufen. Bitte schicke das noch einmal.",
		replyNoResults:     "Ich habe keine Flüge für diese Daten gefunden. Sollen wir andere Daten probieren?",
		replyNoForFilter:   "Ich habe Flüge gefunden, aber keine der gewünschten Airline. Soll ich andere zeigen?",
		replyAskOrigin:     "Von welcher Stadt fliegst du ab?",
		replyAskDest:       "Wohin möchtest du fliegen?",
		replyAskTripType:   "Nur Hinflug, oder auch zurück?",
		replyAskDates:      "Wann möchtest du reisen?",
		replyAskReturn:     "Wann möchtest du zurückfliegen?",
		replySamePlace:     "Abflug und Ziel scheinen derselbe Ort zu sein. Wohin möchtest du fliegen?",
		replyUnknownPlace:  "Ich erkenne %q nicht als Stadt oder Flughafen. Versuch einen anderen Namen oder Code.",
		replyBadDate:       "Ich konnte %q nicht als Reisedatum verstehen. Kannst du es anders sagen?",
		replyPastDate:      "%q scheint in der Vergangenheit zu liegen. Wann möchtest du reisen?",
		replyQuotaUsed:     "Deine kostenlosen Suchen für diesen Monat sind aufgebraucht. Anfang nächsten Monats geht es weiter.",
	},
	"ar": {
		replyGreeting:      "مرحباً! يمكنني البحث عن رحلات طيران لك. إلى أين تود السفر؟",
		replyReset:         "تم، مسحت كل شيء. إلى أين تود السفر؟",
		replyBusy:          "ما زلت أعمل على رسالتك السابقة، لحظة من فضلك.",
		replyRephrase:      "عذراً، لم أفهم ذلك. هل يمكنك إعادة الصياغة؟",
		replyRetryLater:    "تعذر الوصول إلى خدمة البحث عن الرحلات. حاول مرة أخرى بعد دقائق.",
		replyMemoryTrouble: "حدث خطأ من جهتي. أرسل رسالتك مرة أخرى من فضلك.",
		replyNoResults:     "لم أجد أي رحلات لهذه التواريخ. هل نجرب تواريخ أخرى؟",
		replyNoForFilter:   "وجدت رحلات لكن ليس مع شركة الطيران التي طلبتها. هل أعرض شركات أخرى؟",
		replyAskOrigin:     "من أي مدينة ستسافر؟",
		replyAskDest:       "إلى أين تود السفر؟",
		replyAskTripType:   "ذهاب فقط أم ذهاب وعودة؟",
		replyAskDates:      "متى تود السفر؟",
		replyAskReturn:     "متى تود العودة؟",
		replySamePlace:     "يبدو أن نقطة الانطلاق والوجهة نفس المكان. إلى أين تود السفر؟",
		replyUnknownPlace:  "لم أتعرف على %q كمدينة أو مطار. جرب اسماً آخر أو رمز مطار.",
		replyBadDate:       "لم أفهم %q كتاريخ سفر. هل يمكنك قوله بطريقة أخرى؟",
		replyPastDate:      "يبدو أن %q تاريخ ماضٍ. متى تود السفر؟",
		replyQuotaUsed:     "لقد استنفدت عمليات البحث المجانية لهذا الشهر. تتجدد في بداية الشهر القادم.",
	},
}

// localize renders a canned reply in the user's language, falling back
// to English for unknown languages or missing translations.
func localize(lang string, key replyKey, args ...any) string {
	table, ok := catalog[lang]
	if !ok {
		table = catalog["en"]
	}
	text, ok := table[key]
	if !ok {
		text = catalog["en"][key]
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
