package command

import "github.com/stellaroneai/swara/pkg/language"

// builtinOrder is the fixed order in which non-active languages are tried.
var builtinOrder = []language.Tag{
	"english", "hindi", "bengali", "telugu", "marathi", "tamil", "gujarati",
	"kannada", "malayalam", "punjabi", "odia", "assamese", "urdu",
}

// commonRules hold keywords that are the same in every language.
var commonRules = Table{
	{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"call 108", "dial 108"}},
	{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"sos", "dial 112"}},
	{Kind: KindNavigate, Target: TargetABHA, Keywords: []string{"abha", "abdm"}},
}

var builtinRules = map[language.Tag]Table{
	"english": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ambulance"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{
			"emergency", "urgent", "help me", "heart attack", "chest pain",
			"cannot breathe", "can't breathe", "unconscious", "bleeding", "accident", "stroke",
		}},
		{Kind: KindNavigate, Target: TargetAppointments, Keywords: []string{"appointment", "book a slot", "schedule a visit"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"consult", "talk to a doctor", "video call", "telemedicine", "doctor"}},
		{Kind: KindNavigate, Target: TargetHealthRecords, Keywords: []string{"health record", "medical record", "my records", "lab report", "report"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"medication", "medicine", "prescription", "pill", "tablet"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"insurance", "claim", "policy"}},
		{Kind: KindNavigate, Target: TargetABHA, Keywords: []string{"health id", "health account"}},
		{Kind: KindNavigate, Target: TargetDashboard, Keywords: []string{"dashboard", "home screen", "go home"}},
		{Kind: KindNavigate, Target: TargetSettings, Keywords: []string{"settings", "preferences", "change language"}},
	},
	"hindi": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"एम्बुलेंस", "एंबुलेंस", "ambulance bulao"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"आपातकाल", "आपात", "इमरजेंसी", "बचाओ", "मदद करो", "bachao", "madad karo", "aapatkal"}},
		{Kind: KindNavigate, Target: TargetAppointments, Keywords: []string{"अपॉइंटमेंट", "मुलाकात", "appointment chahiye"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"परामर्श", "डॉक्टर", "doctor se baat"}},
		{Kind: KindNavigate, Target: TargetHealthRecords, Keywords: []string{"स्वास्थ्य रिकॉर्ड", "रिपोर्ट"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"दवा", "दवाई", "dawai"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"बीमा", "bima"}},
		{Kind: KindNavigate, Target: TargetABHA, Keywords: []string{"आभा"}},
		{Kind: KindNavigate, Target: TargetDashboard, Keywords: []string{"डैशबोर्ड", "होम"}},
		{Kind: KindNavigate, Target: TargetSettings, Keywords: []string{"सेटिंग"}},
	},
	"bengali": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"অ্যাম্বুলেন্স"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"জরুরি", "বাঁচাও"}},
		{Kind: KindNavigate, Target: TargetAppointments, Keywords: []string{"অ্যাপয়েন্টমেন্ট"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ডাক্তার"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"ওষুধ"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"বিমা"}},
	},
	"telugu": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"అంబులెన్స్"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"అత్యవసర", "కాపాడండి"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"డాక్టర్"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"మందులు"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"బీమా"}},
	},
	"marathi": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"रुग्णवाहिका"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"आणीबाणी", "वाचवा"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"डॉक्टर"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"औषध"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"विमा"}},
	},
	"tamil": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ஆம்புலன்ஸ்"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"அவசரம்", "காப்பாற்று"}},
		{Kind: KindNavigate, Target: TargetAppointments, Keywords: []string{"சந்திப்பு"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"மருத்துவர்"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"மருந்து"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"காப்பீடு"}},
	},
	"gujarati": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"એમ્બ્યુલન્સ"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"કટોકટી", "બચાવો"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ડૉક્ટર"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"દવા"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"વીમો"}},
	},
	"kannada": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ಆಂಬ್ಯುಲೆನ್ಸ್"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"ತುರ್ತು"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ವೈದ್ಯ"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"ಔಷಧ"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"ವಿಮೆ"}},
	},
	"malayalam": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ആംബുലൻസ്"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"അടിയന്തിര"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ഡോക്ടർ"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"മരുന്ന്"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"ഇൻഷുറൻസ്"}},
	},
	"punjabi": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ਐਂਬੂਲੈਂਸ"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"ਐਮਰਜੈਂਸੀ", "ਬਚਾਓ"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ਡਾਕਟਰ"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"ਦਵਾਈ"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"ਬੀਮਾ"}},
	},
	"odia": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ଆମ୍ବୁଲାନ୍ସ"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"ଜରୁରୀ"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ଡାକ୍ତର"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"ଔଷଧ"}},
	},
	"assamese": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"এম্বুলেন্স"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"জৰুৰী"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ডাক্তৰ"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"ঔষধ"}},
	},
	"urdu": {
		{Kind: KindEmergency, Target: TargetAmbulance, Keywords: []string{"ایمبولینس"}},
		{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"ایمرجنسی", "بچاؤ"}},
		{Kind: KindNavigate, Target: TargetConsultation, Keywords: []string{"ڈاکٹر"}},
		{Kind: KindNavigate, Target: TargetMedications, Keywords: []string{"دوا"}},
		{Kind: KindNavigate, Target: TargetInsurance, Keywords: []string{"بیمہ"}},
	},
}
