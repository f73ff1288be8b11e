package language

// DefaultTag is the fallback language of the built-in catalog.
const DefaultTag Tag = "english"

var indicProfile = Profile{Rate: 0.9, Pitch: 1.0, Volume: 1.0}

// indic builds an entry with the shared Indic voice profile. Target labels
// are stored as phrases under PhraseTargetPrefix.
func indic(tag Tag, locale string, phrases, targets map[string]string) Entry {
	p := indicProfile
	p.Locale = locale
	return Entry{Tag: tag, Locale: locale, Profile: p, Phrases: withTargets(phrases, targets)}
}

func withTargets(phrases, targets map[string]string) map[string]string {
	for target, label := range targets {
		phrases[PhraseTargetPrefix+target] = label
	}
	return phrases
}

// DefaultCatalog returns the built-in 13-language catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultTag,
		Entry{
			Tag:     "english",
			Locale:  "en-IN",
			Profile: Profile{Locale: "en-IN", Rate: 1.0, Pitch: 1.0, Volume: 1.0},
			Phrases: map[string]string{
				PhraseGreetingMorning:   "Good morning! How can I help you with your health today?",
				PhraseGreetingAfternoon: "Good afternoon! How can I help you with your health today?",
				PhraseGreetingEvening:   "Good evening! How can I help you with your health today?",
				PhraseConfirmNavigate:   "Opening {target}.",
				PhraseConfirmEmergency:  "Emergency detected. Getting help now.",
				PhraseAnswerUnavailable: "Sorry, I could not get an answer right now. Please try again.",
				PhraseNotUnderstood:     "Sorry, I did not catch that. Please say it again.",
			},
		},
		indic("hindi", "hi-IN", map[string]string{
			PhraseGreetingMorning:   "सुप्रभात! आज मैं आपके स्वास्थ्य में कैसे मदद कर सकता हूँ?",
			PhraseGreetingAfternoon: "नमस्कार! आज मैं आपके स्वास्थ्य में कैसे मदद कर सकता हूँ?",
			PhraseGreetingEvening:   "शुभ संध्या! आज मैं आपके स्वास्थ्य में कैसे मदद कर सकता हूँ?",
			PhraseConfirmNavigate:   "{target} खोल रहा हूँ।",
			PhraseConfirmEmergency:  "आपातकाल पहचाना गया। मदद बुला रहा हूँ।",
			PhraseAnswerUnavailable: "क्षमा करें, अभी उत्तर नहीं मिल सका। कृपया फिर से प्रयास करें।",
			PhraseNotUnderstood:     "क्षमा करें, मैं समझ नहीं पाया। कृपया फिर से कहें।",
		}, map[string]string{
			"appointments":   "अपॉइंटमेंट",
			"consultation":   "परामर्श",
			"health_records": "स्वास्थ्य रिकॉर्ड",
			"medications":    "दवाइयाँ",
			"insurance":      "बीमा",
			"abha":           "आभा",
			"dashboard":      "डैशबोर्ड",
			"settings":       "सेटिंग्स",
		}),
		indic("bengali", "bn-IN", map[string]string{
			PhraseGreetingMorning:   "সুপ্রভাত! আজ আমি আপনার স্বাস্থ্যে কীভাবে সাহায্য করতে পারি?",
			PhraseGreetingAfternoon: "নমস্কার! আজ আমি আপনার স্বাস্থ্যে কীভাবে সাহায্য করতে পারি?",
			PhraseGreetingEvening:   "শুভ সন্ধ্যা! আজ আমি আপনার স্বাস্থ্যে কীভাবে সাহায্য করতে পারি?",
			PhraseConfirmNavigate:   "{target} খোলা হচ্ছে।",
			PhraseConfirmEmergency:  "জরুরি অবস্থা শনাক্ত হয়েছে। সাহায্য ডাকা হচ্ছে।",
			PhraseAnswerUnavailable: "দুঃখিত, এখন উত্তর পাওয়া যায়নি। আবার চেষ্টা করুন।",
			PhraseNotUnderstood:     "দুঃখিত, আমি বুঝতে পারিনি। আবার বলুন।",
		}, map[string]string{
			"appointments":   "অ্যাপয়েন্টমেন্ট",
			"consultation":   "পরামর্শ",
			"health_records": "স্বাস্থ্য রেকর্ড",
			"medications":    "ওষুধ",
			"insurance":      "বীমা",
			"abha":           "আভা",
			"dashboard":      "ড্যাশবোর্ড",
			"settings":       "সেটিংস",
		}),
		indic("telugu", "te-IN", map[string]string{
			PhraseGreetingMorning:   "శుభోదయం! ఈ రోజు మీ ఆరోగ్యానికి నేను ఎలా సహాయం చేయగలను?",
			PhraseGreetingAfternoon: "నమస్కారం! ఈ రోజు మీ ఆరోగ్యానికి నేను ఎలా సహాయం చేయగలను?",
			PhraseGreetingEvening:   "శుభ సాయంత్రం! ఈ రోజు మీ ఆరోగ్యానికి నేను ఎలా సహాయం చేయగలను?",
			PhraseConfirmNavigate:   "{target} తెరుస్తున్నాను.",
			PhraseConfirmEmergency:  "అత్యవసర పరిస్థితి గుర్తించబడింది. సహాయం పిలుస్తున్నాను.",
			PhraseAnswerUnavailable: "క్షమించండి, ఇప్పుడు సమాధానం దొరకలేదు. దయచేసి మళ్ళీ ప్రయత్నించండి.",
			PhraseNotUnderstood:     "క్షమించండి, నాకు అర్థం కాలేదు. దయచేసి మళ్ళీ చెప్పండి.",
		}, map[string]string{
			"appointments":   "అపాయింట్‌మెంట్లు",
			"consultation":   "సంప్రదింపు",
			"health_records": "ఆరోగ్య రికార్డులు",
			"medications":    "మందులు",
			"insurance":      "బీమా",
			"abha":           "ఆభా",
			"dashboard":      "డ్యాష్‌బోర్డ్",
			"settings":       "సెట్టింగ్‌లు",
		}),
		indic("marathi", "mr-IN", map[string]string{
			PhraseGreetingMorning:   "सुप्रभात! आज मी तुमच्या आरोग्यासाठी कशी मदत करू?",
			PhraseGreetingAfternoon: "नमस्कार! आज मी तुमच्या आरोग्यासाठी कशी मदत करू?",
			PhraseGreetingEvening:   "शुभ संध्याकाळ! आज मी तुमच्या आरोग्यासाठी कशी मदत करू?",
			PhraseConfirmNavigate:   "{target} उघडत आहे.",
			PhraseConfirmEmergency:  "आणीबाणी ओळखली. मदत बोलावत आहे.",
			PhraseAnswerUnavailable: "क्षमस्व, आत्ता उत्तर मिळाले नाही. कृपया पुन्हा प्रयत्न करा.",
			PhraseNotUnderstood:     "क्षमस्व, मला समजले नाही. कृपया पुन्हा सांगा.",
		}, map[string]string{
			"appointments":   "अपॉइंटमेंट",
			"consultation":   "सल्ला",
			"health_records": "आरोग्य नोंदी",
			"medications":    "औषधे",
			"insurance":      "विमा",
			"abha":           "आभा",
			"dashboard":      "डॅशबोर्ड",
			"settings":       "सेटिंग्ज",
		}),
		indic("tamil", "ta-IN", map[string]string{
			PhraseGreetingMorning:   "காலை வணக்கம்! இன்று உங்கள் ஆரோக்கியத்திற்கு நான் எப்படி உதவ முடியும்?",
			PhraseGreetingAfternoon: "மதிய வணக்கம்! இன்று உங்கள் ஆரோக்கியத்திற்கு நான் எப்படி உதவ முடியும்?",
			PhraseGreetingEvening:   "மாலை வணக்கம்! இன்று உங்கள் ஆரோக்கியத்திற்கு நான் எப்படி உதவ முடியும்?",
			PhraseConfirmNavigate:   "{target} திறக்கிறேன்.",
			PhraseConfirmEmergency:  "அவசரநிலை கண்டறியப்பட்டது. உதவி அழைக்கப்படுகிறது.",
			PhraseAnswerUnavailable: "மன்னிக்கவும், இப்போது பதில் கிடைக்கவில்லை. மீண்டும் முயற்சிக்கவும்.",
			PhraseNotUnderstood:     "மன்னிக்கவும், எனக்குப் புரியவில்லை. மீண்டும் சொல்லுங்கள்.",
		}, map[string]string{
			"appointments":   "சந்திப்புகள்",
			"consultation":   "ஆலோசனை",
			"health_records": "சுகாதாரப் பதிவுகள்",
			"medications":    "மருந்துகள்",
			"insurance":      "காப்பீடு",
			"abha":           "ஆபா",
			"dashboard":      "டாஷ்போர்டு",
			"settings":       "அமைப்புகள்",
		}),
		indic("gujarati", "gu-IN", map[string]string{
			PhraseGreetingMorning:   "સુપ્રભાત! આજે હું તમારા સ્વાસ્થ્યમાં કેવી રીતે મદદ કરી શકું?",
			PhraseGreetingAfternoon: "નમસ્તે! આજે હું તમારા સ્વાસ્થ્યમાં કેવી રીતે મદદ કરી શકું?",
			PhraseGreetingEvening:   "શુભ સાંજ! આજે હું તમારા સ્વાસ્થ્યમાં કેવી રીતે મદદ કરી શકું?",
			PhraseConfirmNavigate:   "{target} ખોલી રહ્યો છું.",
			PhraseConfirmEmergency:  "કટોકટી ઓળખાઈ. મદદ બોલાવી રહ્યો છું.",
			PhraseAnswerUnavailable: "માફ કરશો, હમણાં જવાબ મળી શક્યો નહીં. કૃપા કરીને ફરી પ્રયાસ કરો.",
			PhraseNotUnderstood:     "માફ કરશો, હું સમજી શક્યો નહીં. કૃપા કરીને ફરી કહો.",
		}, map[string]string{
			"appointments":   "એપોઇન્ટમેન્ટ",
			"consultation":   "પરામર્શ",
			"health_records": "આરોગ્ય રેકોર્ડ",
			"medications":    "દવાઓ",
			"insurance":      "વીમો",
			"abha":           "આભા",
			"dashboard":      "ડેશબોર્ડ",
			"settings":       "સેટિંગ્સ",
		}),
		indic("kannada", "kn-IN", map[string]string{
			PhraseGreetingMorning:   "ಶುಭೋದಯ! ಇಂದು ನಿಮ್ಮ ಆರೋಗ್ಯಕ್ಕೆ ನಾನು ಹೇಗೆ ಸಹಾಯ ಮಾಡಲಿ?",
			PhraseGreetingAfternoon: "ನಮಸ್ಕಾರ! ಇಂದು ನಿಮ್ಮ ಆರೋಗ್ಯಕ್ಕೆ ನಾನು ಹೇಗೆ ಸಹಾಯ ಮಾಡಲಿ?",
			PhraseGreetingEvening:   "ಶುಭ ಸಂಜೆ! ಇಂದು ನಿಮ್ಮ ಆರೋಗ್ಯಕ್ಕೆ ನಾನು ಹೇಗೆ ಸಹಾಯ ಮಾಡಲಿ?",
			PhraseConfirmNavigate:   "{target} ತೆರೆಯುತ್ತಿದ್ದೇನೆ.",
			PhraseConfirmEmergency:  "ತುರ್ತು ಪರಿಸ್ಥಿತಿ ಗುರುತಿಸಲಾಗಿದೆ. ಸಹಾಯ ಕರೆಯುತ್ತಿದ್ದೇನೆ.",
			PhraseAnswerUnavailable: "ಕ್ಷಮಿಸಿ, ಈಗ ಉತ್ತರ ಸಿಗಲಿಲ್ಲ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
			PhraseNotUnderstood:     "ಕ್ಷಮಿಸಿ, ನನಗೆ ಅರ್ಥವಾಗಲಿಲ್ಲ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಹೇಳಿ.",
		}, map[string]string{
			"appointments":   "ಅಪಾಯಿಂಟ್‌ಮೆಂಟ್‌ಗಳು",
			"consultation":   "ಸಮಾಲೋಚನೆ",
			"health_records": "ಆರೋಗ್ಯ ದಾಖಲೆಗಳು",
			"medications":    "ಔಷಧಿಗಳು",
			"insurance":      "ವಿಮೆ",
			"abha":           "ಆಭಾ",
			"dashboard":      "ಡ್ಯಾಶ್‌ಬೋರ್ಡ್",
			"settings":       "ಸೆಟ್ಟಿಂಗ್‌ಗಳು",
		}),
		indic("malayalam", "ml-IN", map[string]string{
			PhraseGreetingMorning:   "സുപ്രഭാതം! ഇന്ന് നിങ്ങളുടെ ആരോഗ്യത്തിന് ഞാൻ എങ്ങനെ സഹായിക്കും?",
			PhraseGreetingAfternoon: "നമസ്കാരം! ഇന്ന് നിങ്ങളുടെ ആരോഗ്യത്തിന് ഞാൻ എങ്ങനെ സഹായിക്കും?",
			PhraseGreetingEvening:   "ശുഭ സന്ധ്യ! ഇന്ന് നിങ്ങളുടെ ആരോഗ്യത്തിന് ഞാൻ എങ്ങനെ സഹായിക്കും?",
			PhraseConfirmNavigate:   "{target} തുറക്കുന്നു.",
			PhraseConfirmEmergency:  "അടിയന്തരാവസ്ഥ കണ്ടെത്തി. സഹായം വിളിക്കുന്നു.",
			PhraseAnswerUnavailable: "ക്ഷമിക്കണം, ഇപ്പോൾ ഉത്തരം ലഭിച്ചില്ല. ദയവായി വീണ്ടും ശ്രമിക്കുക.",
			PhraseNotUnderstood:     "ക്ഷമിക്കണം, എനിക്ക് മനസ്സിലായില്ല. ദയവായി വീണ്ടും പറയുക.",
		}, map[string]string{
			"appointments":   "അപ്പോയിന്റ്മെന്റുകൾ",
			"consultation":   "കൺസൾട്ടേഷൻ",
			"health_records": "ആരോഗ്യ രേഖകൾ",
			"medications":    "മരുന്നുകൾ",
			"insurance":      "ഇൻഷുറൻസ്",
			"abha":           "ആഭ",
			"dashboard":      "ഡാഷ്ബോർഡ്",
			"settings":       "ക്രമീകരണങ്ങൾ",
		}),
		indic("punjabi", "pa-IN", map[string]string{
			PhraseGreetingMorning:   "ਸ਼ੁਭ ਸਵੇਰ! ਅੱਜ ਮੈਂ ਤੁਹਾਡੀ ਸਿਹਤ ਵਿੱਚ ਕਿਵੇਂ ਮਦਦ ਕਰ ਸਕਦਾ ਹਾਂ?",
			PhraseGreetingAfternoon: "ਸਤ ਸ੍ਰੀ ਅਕਾਲ! ਅੱਜ ਮੈਂ ਤੁਹਾਡੀ ਸਿਹਤ ਵਿੱਚ ਕਿਵੇਂ ਮਦਦ ਕਰ ਸਕਦਾ ਹਾਂ?",
			PhraseGreetingEvening:   "ਸ਼ੁਭ ਸ਼ਾਮ! ਅੱਜ ਮੈਂ ਤੁਹਾਡੀ ਸਿਹਤ ਵਿੱਚ ਕਿਵੇਂ ਮਦਦ ਕਰ ਸਕਦਾ ਹਾਂ?",
			PhraseConfirmNavigate:   "{target} ਖੋਲ੍ਹ ਰਿਹਾ ਹਾਂ।",
			PhraseConfirmEmergency:  "ਐਮਰਜੈਂਸੀ ਦੀ ਪਛਾਣ ਹੋਈ। ਮਦਦ ਬੁਲਾ ਰਿਹਾ ਹਾਂ।",
			PhraseAnswerUnavailable: "ਮਾਫ਼ ਕਰਨਾ, ਹੁਣੇ ਜਵਾਬ ਨਹੀਂ ਮਿਲ ਸਕਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
			PhraseNotUnderstood:     "ਮਾਫ਼ ਕਰਨਾ, ਮੈਂ ਸਮਝ ਨਹੀਂ ਸਕਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਕਹੋ।",
		}, map[string]string{
			"appointments":   "ਅਪਾਇੰਟਮੈਂਟ",
			"consultation":   "ਸਲਾਹ",
			"health_records": "ਸਿਹਤ ਰਿਕਾਰਡ",
			"medications":    "ਦਵਾਈਆਂ",
			"insurance":      "ਬੀਮਾ",
			"abha":           "ਆਭਾ",
			"dashboard":      "ਡੈਸ਼ਬੋਰਡ",
			"settings":       "ਸੈਟਿੰਗਾਂ",
		}),
		indic("odia", "or-IN", map[string]string{
			PhraseGreetingMorning:   "ସୁପ୍ରଭାତ! ଆଜି ମୁଁ ଆପଣଙ୍କ ସ୍ୱାସ୍ଥ୍ୟରେ କିପରି ସାହାଯ୍ୟ କରିପାରିବି?",
			PhraseGreetingAfternoon: "ନମସ୍କାର! ଆଜି ମୁଁ ଆପଣଙ୍କ ସ୍ୱାସ୍ଥ୍ୟରେ କିପରି ସାହାଯ୍ୟ କରିପାରିବି?",
			PhraseGreetingEvening:   "ଶୁଭ ସନ୍ଧ୍ୟା! ଆଜି ମୁଁ ଆପଣଙ୍କ ସ୍ୱାସ୍ଥ୍ୟରେ କିପରି ସାହାଯ୍ୟ କରିପାରିବି?",
			PhraseConfirmNavigate:   "{target} ଖୋଲୁଛି।",
			PhraseConfirmEmergency:  "ଜରୁରୀକାଳୀନ ସ୍ଥିତି ଚିହ୍ନଟ ହେଲା। ସାହାଯ୍ୟ ଡାକୁଛି।",
			PhraseAnswerUnavailable: "କ୍ଷମା କରନ୍ତୁ, ବର୍ତ୍ତମାନ ଉତ୍ତର ମିଳିଲା ନାହିଁ। ଦୟାକରି ପୁଣି ଚେଷ୍ଟା କରନ୍ତୁ।",
			PhraseNotUnderstood:     "କ୍ଷମା କରନ୍ତୁ, ମୁଁ ବୁଝିପାରିଲି ନାହିଁ। ଦୟାକରି ପୁଣି କୁହନ୍ତୁ।",
		}, map[string]string{
			"appointments":   "ଆପଏଣ୍ଟମେଣ୍ଟ",
			"consultation":   "ପରାମର୍ଶ",
			"health_records": "ସ୍ୱାସ୍ଥ୍ୟ ରେକର୍ଡ",
			"medications":    "ଔଷଧ",
			"insurance":      "ବୀମା",
			"abha":           "ଆଭା",
			"dashboard":      "ଡ୍ୟାସବୋର୍ଡ",
			"settings":       "ସେଟିଂସ",
		}),
		indic("assamese", "as-IN", map[string]string{
			PhraseGreetingMorning:   "সুপ্ৰভাত! আজি মই আপোনাৰ স্বাস্থ্যত কেনেকৈ সহায় কৰিব পাৰোঁ?",
			PhraseGreetingAfternoon: "নমস্কাৰ! আজি মই আপোনাৰ স্বাস্থ্যত কেনেকৈ সহায় কৰিব পাৰোঁ?",
			PhraseGreetingEvening:   "শুভ সন্ধিয়া! আজি মই আপোনাৰ স্বাস্থ্যত কেনেকৈ সহায় কৰিব পাৰোঁ?",
			PhraseConfirmNavigate:   "{target} খুলি আছোঁ।",
			PhraseConfirmEmergency:  "জৰুৰীকালীন অৱস্থা চিনাক্ত কৰা হৈছে। সহায় মাতি আছোঁ।",
			PhraseAnswerUnavailable: "দুঃখিত, এতিয়া উত্তৰ পোৱা নগ'ল। অনুগ্ৰহ কৰি পুনৰ চেষ্টা কৰক।",
			PhraseNotUnderstood:     "দুঃখিত, মই বুজি নাপালোঁ। অনুগ্ৰহ কৰি পুনৰ কওক।",
		}, map[string]string{
			"appointments":   "এপইণ্টমেণ্ট",
			"consultation":   "পৰামৰ্শ",
			"health_records": "স্বাস্থ্য ৰেকৰ্ড",
			"medications":    "ঔষধ",
			"insurance":      "বীমা",
			"abha":           "আভা",
			"dashboard":      "ডেশ্বব'ৰ্ড",
			"settings":       "ছেটিংছ",
		}),
		indic("urdu", "ur-IN", map[string]string{
			PhraseGreetingMorning:   "صبح بخیر! آج میں آپ کی صحت میں کیسے مدد کر سکتا ہوں؟",
			PhraseGreetingAfternoon: "آداب! آج میں آپ کی صحت میں کیسے مدد کر سکتا ہوں؟",
			PhraseGreetingEvening:   "شام بخیر! آج میں آپ کی صحت میں کیسے مدد کر سکتا ہوں؟",
			PhraseConfirmNavigate:   "{target} کھول رہا ہوں۔",
			PhraseConfirmEmergency:  "ہنگامی صورتحال کا پتہ چلا۔ مدد بلا رہا ہوں۔",
			PhraseAnswerUnavailable: "معاف کیجیے، ابھی جواب نہیں مل سکا۔ براہ کرم دوبارہ کوشش کریں۔",
			PhraseNotUnderstood:     "معاف کیجیے، میں سمجھ نہیں سکا۔ براہ کرم دوبارہ کہیں۔",
		}, map[string]string{
			"appointments":   "اپائنٹمنٹ",
			"consultation":   "مشورہ",
			"health_records": "صحت ریکارڈ",
			"medications":    "دوائیں",
			"insurance":      "بیمہ",
			"abha":           "آبھا",
			"dashboard":      "ڈیش بورڈ",
			"settings":       "سیٹنگز",
		}),
	)
}
