package announcement

import "annunciator/internal/language"

// sentences holds the built-in announcement text per category and language.
// English is the canonical sentence; the others are used verbatim when the
// translation collaborator is unavailable.
var sentences = map[Category]map[language.Language]string{
	CategoryArrival: {
		language.English:  "Attention please! Train number {train_number} {train_name} from {origin} to {destination} will arrive at platform number {platform_number}. Thank you.",
		language.Hindi:    "कृपया ध्यान दें! ट्रेन नंबर {train_number} {train_name} {origin} से {destination} तक प्लेटफॉर्म नंबर {platform_number} पर आ रही है। धन्यवाद।",
		language.Marathi:  "कृपया लक्ष द्या! ट्रेन क्रमांक {train_number} {train_name} {origin} पासून {destination} पर्यंत प्लॅटफॉर्म क्रमांक {platform_number} वर येत आहे. धन्यवाद.",
		language.Gujarati: "કૃપા કરીને ધ્યાન આપો! ટ્રેન નંબર {train_number} {train_name} {origin} થી {destination} સુધી પ્લેટફોર્મ નંબર {platform_number} પર આવી રહી છે. આભાર.",
	},
	CategoryDeparture: {
		language.English:  "Attention please! Train number {train_number} {train_name} from {origin} to {destination} will depart from platform number {platform_number}. Thank you.",
		language.Hindi:    "कृपया ध्यान दें! ट्रेन नंबर {train_number} {train_name} {origin} से {destination} तक प्लेटफॉर्म नंबर {platform_number} से प्रस्थान करेगी। धन्यवाद।",
		language.Marathi:  "कृपया लक्ष द्या! ट्रेन क्रमांक {train_number} {train_name} {origin} पासून {destination} पर्यंत प्लॅटफॉर्म क्रमांक {platform_number} वरून सुटेल. धन्यवाद.",
		language.Gujarati: "કૃપા કરીને ધ્યાન આપો! ટ્રેન નંબર {train_number} {train_name} {origin} થી {destination} સુધી પ્લેટફોર્મ નંબર {platform_number} પરથી ઉપડશે. આભાર.",
	},
	CategoryDelay: {
		language.English:  "Attention please! Train number {train_number} {train_name} from {origin} to {destination} is running late and will arrive at platform number {platform_number}. We regret the inconvenience.",
		language.Hindi:    "कृपया ध्यान दें! ट्रेन नंबर {train_number} {train_name} {origin} से {destination} तक विलंब से चल रही है और प्लेटफॉर्म नंबर {platform_number} पर आएगी। असुविधा के लिए हमें खेद है।",
		language.Marathi:  "कृपया लक्ष द्या! ट्रेन क्रमांक {train_number} {train_name} {origin} पासून {destination} पर्यंत उशिराने धावत आहे आणि प्लॅटफॉर्म क्रमांक {platform_number} वर येईल. गैरसोयीबद्दल क्षमस्व.",
		language.Gujarati: "કૃપા કરીને ધ્યાન આપો! ટ્રેન નંબર {train_number} {train_name} {origin} થી {destination} સુધી મોડી ચાલી રહી છે અને પ્લેટફોર્મ નંબર {platform_number} પર આવશે. અસુવિધા બદલ અમે દિલગીર છીએ.",
	},
	CategoryPlatformChange: {
		language.English:  "Attention please! The platform for train number {train_number} {train_name} from {origin} to {destination} has been changed. The train will now arrive at platform number {new_platform} instead of platform number {previous_platform}. Thank you.",
		language.Hindi:    "कृपया ध्यान दें! ट्रेन नंबर {train_number} {train_name} {origin} से {destination} तक का प्लेटफॉर्म बदल दिया गया है। यह ट्रेन अब प्लेटफॉर्म नंबर {previous_platform} के स्थान पर प्लेटफॉर्म नंबर {new_platform} पर आएगी। धन्यवाद।",
		language.Marathi:  "कृपया लक्ष द्या! ट्रेन क्रमांक {train_number} {train_name} {origin} पासून {destination} पर्यंतचा प्लॅटफॉर्म बदलण्यात आला आहे. ही ट्रेन आता प्लॅटफॉर्म क्रमांक {previous_platform} ऐवजी प्लॅटफॉर्म क्रमांक {new_platform} वर येईल. धन्यवाद.",
		language.Gujarati: "કૃપા કરીને ધ્યાન આપો! ટ્રેન નંબર {train_number} {train_name} {origin} થી {destination} સુધીનું પ્લેટફોર્મ બદલાયું છે. આ ટ્રેન હવે પ્લેટફોર્મ નંબર {previous_platform} ને બદલે પ્લેટફોર્મ નંબર {new_platform} પર આવશે. આભાર.",
	},
	CategoryGeneral: {
		language.English:  "Attention please! Passengers of train number {train_number} {train_name} from {origin} to {destination} are requested to proceed to platform number {platform_number}. Thank you.",
		language.Hindi:    "कृपया ध्यान दें! ट्रेन नंबर {train_number} {train_name} {origin} से {destination} तक के यात्रियों से अनुरोध है कि वे प्लेटफॉर्म नंबर {platform_number} पर पहुंचें। धन्यवाद।",
		language.Marathi:  "कृपया लक्ष द्या! ट्रेन क्रमांक {train_number} {train_name} {origin} पासून {destination} पर्यंतच्या प्रवाशांनी प्लॅटफॉर्म क्रमांक {platform_number} वर यावे. धन्यवाद.",
		language.Gujarati: "કૃપા કરીને ધ્યાન આપો! ટ્રેન નંબર {train_number} {train_name} {origin} થી {destination} સુધીના મુસાફરોને પ્લેટફોર્મ નંબર {platform_number} પર પહોંચવા વિનંતી છે. આભાર.",
	},
}

// Sentence renders the built-in sentence for the event in lang. Languages
// without a built-in sentence get the English one.
func Sentence(event TrainEvent, lang language.Language) string {
	byLang, ok := sentences[event.Category]
	if !ok {
		byLang = sentences[CategoryGeneral]
	}
	tmpl, ok := byLang[lang]
	if !ok {
		tmpl = byLang[language.English]
	}
	return RenderTemplate(tmpl, event.Values())
}

// HasSentence reports whether a built-in sentence exists for lang.
func HasSentence(lang language.Language) bool {
	_, ok := sentences[CategoryArrival][lang]
	return ok
}
